package bias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLossAversionNeedsBothOutcomes(t *testing.T) {
	allWins := evenSession(30, time.Minute, []float64{10})

	score, details := DetectLossAversion(allWins)

	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient_data", details["reason"])
}

func TestLossAversionAsymmetryScoresHigher(t *testing.T) {
	// Averse trader: small frequent wins, rare huge losses held long.
	averse := buildFrame(lossAverseSpecs(), 10000)
	// Balanced trader: symmetric wins and losses.
	balanced := evenSession(40, 5*time.Minute, []float64{20, -20})

	averseScore, averseDetails := DetectLossAversion(averse)
	balancedScore, _ := DetectLossAversion(balanced)

	assert.Greater(t, averseScore, balancedScore)

	require.Contains(t, averseDetails, "loss_win_magnitude_ratio")
	assert.Greater(t, averseDetails["loss_win_magnitude_ratio"].(float64), 2.0)
	require.Contains(t, averseDetails, "holding_ratio_loss_to_win")
	assert.Greater(t, averseDetails["holding_ratio_loss_to_win"].(float64), 1.0)
}

func TestLossAversionRecordsTTest(t *testing.T) {
	frame := buildFrame(lossAverseSpecs(), 10000)
	_, details := DetectLossAversion(frame)

	assert.Contains(t, details, "holding_ttest_t")
	assert.Contains(t, details, "holding_ttest_p")
	assert.Contains(t, details, "holding_significant")
}

// lossAverseSpecs loads the dice: wins come quickly and small, losses arrive
// after long holds and are four times larger.
func lossAverseSpecs() []tradeSpec {
	var specs []tradeSpec
	offset := time.Duration(0)
	for i := 0; i < 24; i++ {
		if i%4 == 3 {
			offset += 40 * time.Minute // long hold before realizing the loss
			specs = append(specs, tradeSpec{offset: offset, pnl: -80})
		} else {
			offset += 2 * time.Minute
			specs = append(specs, tradeSpec{offset: offset, pnl: 20})
		}
	}
	return specs
}
