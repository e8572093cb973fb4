package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRateMonitorsPhaseRateRejects(t *testing.T) {
	conf := defaultTestConf()
	carry := &CarryOver{PrevL1: 0, PrevSmoothC1: 0}
	rec := &Record{L1Meters: 10000, SmoothC1: 0, ValidL1: true}

	rejected := applyRateMonitors(rec, carry, 1, conf)

	assert.True(t, rejected)
	assert.Equal(t, RejMaxPhaseRate, rec.RejectionCause)
	assert.True(t, carry.ResetHatchFilter)
}

func TestApplyRateMonitorsStepOnlyEvaluatedWithBaseline(t *testing.T) {
	conf := defaultTestConf()
	conf.MaxPhaseRate.Enabled = false // isolate the step gate
	carry := &CarryOver{PrevL1: 0, PrevPhaseRateL1: 0}
	rec := &Record{L1Meters: 1, SmoothC1: 0, ValidL1: true}

	rejected := applyRateMonitors(rec, carry, 1, conf)

	// PrevPhaseRateL1 == 0 means no baseline yet: the step gate must not
	// run even though it's enabled (spec §4.6).
	assert.False(t, rejected)
	assert.Equal(t, 0.0, rec.PhaseRateStepL1)
}

func TestApplyRateMonitorsCodeRateRejects(t *testing.T) {
	conf := defaultTestConf()
	conf.MaxPhaseRate.Enabled = false
	conf.MaxPhaseRateStep.Enabled = false
	carry := &CarryOver{PrevSmoothC1: 0}
	rec := &Record{SmoothC1: 5000, ValidL1: true}

	rejected := applyRateMonitors(rec, carry, 1, conf)

	assert.True(t, rejected)
	assert.Equal(t, RejMaxCodeRate, rec.RejectionCause)
}

func TestApplyRateMonitorsShortCircuitsOnFirstFailure(t *testing.T) {
	conf := defaultTestConf()
	carry := &CarryOver{PrevL1: 0, PrevSmoothC1: 0}
	rec := &Record{L1Meters: 10000, SmoothC1: 5000, ValidL1: true}

	applyRateMonitors(rec, carry, 1, conf)

	// The phase-rate gate fails first; the code-rate gate must never run.
	assert.Equal(t, RejMaxPhaseRate, rec.RejectionCause)
	assert.Equal(t, 0.0, rec.RangeRateL1)
}

func TestApplyRateMonitorsAllPassWithinThresholds(t *testing.T) {
	conf := defaultTestConf()
	carry := &CarryOver{PrevL1: 9, PrevSmoothC1: 9}
	rec := &Record{L1Meters: 10, SmoothC1: 10, ValidL1: true}

	rejected := applyRateMonitors(rec, carry, 1, conf)

	assert.False(t, rejected)
	assert.Equal(t, RejNone, rec.RejectionCause)
}
