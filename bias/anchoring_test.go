package bias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnchoringNeedsTenTrades(t *testing.T) {
	score, details := DetectAnchoring(evenSession(9, time.Minute, []float64{10, -10}))

	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient_data", details["reason"])
}

func TestAnchoringFullyPinnedSession(t *testing.T) {
	// Every exit sits on the entry price (an integer), and every |P&L| equals
	// the session median: all three fractions saturate.
	specs := make([]tradeSpec, 12)
	for i := range specs {
		specs[i] = tradeSpec{
			offset: time.Duration(i) * time.Minute,
			pnl:    5,
			entry:  100,
			exit:   100,
		}
	}
	score, details := DetectAnchoring(buildFrame(specs, 1000))

	assert.Equal(t, 100.0, score)
	assert.Equal(t, 1.0, details["breakeven_exit_fraction"])
	assert.Equal(t, 1.0, details["median_pnl_fraction"])
	assert.Equal(t, 1.0, details["round_price_fraction"])
}

func TestAnchoringScatteredExitsScoreLow(t *testing.T) {
	specs := make([]tradeSpec, 20)
	pnls := []float64{17.3, -42.9, 88.1, -5.6, 133.7}
	for i := range specs {
		specs[i] = tradeSpec{
			offset: time.Duration(i) * time.Minute,
			pnl:    pnls[i%len(pnls)],
			entry:  100,
			exit:   123.4567 + float64(i)*1.117,
		}
	}
	score, _ := DetectAnchoring(buildFrame(specs, 10000))

	assert.Less(t, score, 30.0)
}
