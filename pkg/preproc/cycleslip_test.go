package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// P7: the detector cannot form a verdict until three consecutive history
// samples are available.
func TestDetectCycleSlipInsufficientHistory(t *testing.T) {
	carry := &CarryOver{Tn1: 3, Tn2: 2} // Tn3 still zero
	verdict := detectCycleSlip(100, 4, carry, 0.05)

	assert.False(t, verdict)
}

func TestDetectCycleSlipNoSlipOnLinearPhase(t *testing.T) {
	carry := &CarryOver{
		Tn1: 3, Tn2: 2, Tn3: 1,
		L1n1: 300, L1n2: 200, L1n3: 100,
	}
	// Phase advancing linearly by 100 cycles/s; the predictor should match
	// almost exactly at t=4 (400 cycles), well under any sane threshold.
	verdict := detectCycleSlip(400, 4, carry, 0.5)

	assert.False(t, verdict)
}

func TestDetectCycleSlipFlagsDiscontinuity(t *testing.T) {
	carry := &CarryOver{
		Tn1: 3, Tn2: 2, Tn3: 1,
		L1n1: 300, L1n2: 200, L1n3: 100,
	}
	// A sudden jump of 1000 cycles should blow past any reasonable
	// threshold.
	verdict := detectCycleSlip(1400, 4, carry, 0.5)

	assert.True(t, verdict)
}

// I4: three consecutive slip verdicts are required to latch a reset; a
// single or double verdict does not.
func TestCarryOverPushCsVerdictLatchesOnThreeInARow(t *testing.T) {
	carry := &CarryOver{}

	carry.pushCsVerdict(true)
	assert.Equal(t, 1, carry.CsIdx)

	carry.pushCsVerdict(false)
	assert.Equal(t, 1, carry.CsIdx)

	carry.pushCsVerdict(true)
	carry.pushCsVerdict(true)
	carry.pushCsVerdict(true)
	assert.Equal(t, 3, carry.CsIdx)
}
