// Package cache provides the capacity-bounded result store that hosting
// layers may place above the analytics core. The core itself stays
// cache-free and stateless; this component is owned and sized by the caller.
package cache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrTooLarge is returned when a single encoded value exceeds the cache
// capacity.
var ErrTooLarge = errors.New("cache: encoded value exceeds capacity")

// Bounded is a byte-capacity-bounded cache with LRU eviction.
//
// Values are stored msgpack-encoded, which keeps the capacity accounting in
// real bytes and guarantees that cached results are ownership-isolated
// copies: a Get decodes into a fresh value, so callers can never mutate what
// other callers will read.
type Bounded struct {
	mu       sync.Mutex
	capacity int
	size     int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	inflight map[string]*call
}

type entry struct {
	key  string
	data []byte
}

type call struct {
	done chan struct{}
	err  error
}

// NewBounded creates a cache holding at most capacityBytes of encoded values
func NewBounded(capacityBytes int) *Bounded {
	return &Bounded{
		capacity: capacityBytes,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		inflight: make(map[string]*call),
	}
}

// Set encodes and stores a value, evicting least-recently-used entries until
// it fits.
func (c *Bounded) Set(key string, value any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	if len(data) > c.capacity {
		return ErrTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeLocked(key, data)
	return nil
}

// Get decodes the cached value for key into dest and reports whether it was
// present.
func (c *Bounded) Get(key string, dest any) bool {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.order.MoveToFront(el)
	data := el.Value.(*entry).data
	c.mu.Unlock()

	return msgpack.Unmarshal(data, dest) == nil
}

// GetOrCompute returns the cached value for key, or runs compute exactly
// once per key (concurrent callers for the same key wait for the first) and
// caches its result.
func (c *Bounded) GetOrCompute(key string, dest any, compute func() (any, error)) error {
	for {
		if c.Get(key, dest) {
			return nil
		}

		c.mu.Lock()
		if cl, running := c.inflight[key]; running {
			c.mu.Unlock()
			<-cl.done
			if cl.err != nil {
				return cl.err
			}
			// Value may already have been evicted again; loop retries.
			continue
		}
		cl := &call{done: make(chan struct{})}
		c.inflight[key] = cl
		c.mu.Unlock()

		value, err := compute()
		if err == nil {
			err = c.Set(key, value)
		}
		cl.err = err

		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		close(cl.done)

		if err != nil {
			return err
		}
		if !c.Get(key, dest) {
			// Evicted between Set and Get under heavy churn; decode directly.
			data, merr := msgpack.Marshal(value)
			if merr != nil {
				return merr
			}
			return msgpack.Unmarshal(data, dest)
		}
		return nil
	}
}

// Delete removes a key if present
func (c *Bounded) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

// Len returns the number of cached entries
func (c *Bounded) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Size returns the total encoded bytes currently held
func (c *Bounded) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Bounded) storeLocked(key string, data []byte) {
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	for c.size+len(data) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}
	el := c.order.PushFront(&entry{key: key, data: data})
	c.entries[key] = el
	c.size += len(data)
}

func (c *Bounded) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.entries, e.key)
	c.size -= len(e.data)
}
