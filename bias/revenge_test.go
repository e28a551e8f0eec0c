package bias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevengeTradingNeedsBuckets(t *testing.T) {
	// Plenty of trades but only one loss: the after-loss bucket is too thin.
	specs := make([]tradeSpec, 20)
	for i := range specs {
		pnl := 10.0
		if i == 10 {
			pnl = -10
		}
		specs[i] = tradeSpec{offset: time.Duration(i) * time.Minute, pnl: pnl}
	}
	score, details := DetectRevengeTrading(buildFrame(specs, 1000))

	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient_data", details["reason"])
}

func TestRevengeTraderScoresHigherThanDisciplined(t *testing.T) {
	revenge := buildFrame(revengeSpecs(), 50000)
	disciplined := evenSession(40, 10*time.Minute, []float64{15, -15})

	revengeScore, revengeDetails := DetectRevengeTrading(revenge)
	disciplinedScore, _ := DetectRevengeTrading(disciplined)

	assert.Greater(t, revengeScore, disciplinedScore)

	require.Contains(t, revengeDetails, "post_loss_aggression_index")
	assert.Greater(t, revengeDetails["post_loss_aggression_index"].(float64), 1.0)
	require.Contains(t, revengeDetails, "loss_escalation_ratio")
	assert.Greater(t, revengeDetails["loss_escalation_ratio"].(float64), 1.0)
}

// revengeSpecs builds a trader who doubles size after every loss and whose
// losses deepen with the streak.
func revengeSpecs() []tradeSpec {
	var specs []tradeSpec
	offset := time.Duration(0)
	add := func(pnl, quantity float64, gap time.Duration) {
		offset += gap
		specs = append(specs, tradeSpec{offset: offset, pnl: pnl, quantity: quantity})
	}

	for i := 0; i < 8; i++ {
		add(30, 10, 15*time.Minute)  // calm winning trade
		add(-40, 10, 15*time.Minute) // first loss of the run
		add(-110, 40, 2*time.Minute) // revenge: bigger size, deeper loss, no cooldown
		add(25, 12, 10*time.Minute)
	}
	return specs
}
