package preproc

import "math"

// applyRateMonitors runs the four code/phase rate gates in order, each
// only evaluated when the previous ones passed (spec §4.6). A rejection
// latches ResetHatchFilter for the satellite's NEXT epoch rather than the
// current one, and short-circuits the remaining gates. Step tests are only
// evaluated once a previous-rate baseline exists. Grounded on
// _examples/original_source/Preprocessing.py's "Carrier Phase Rate L1",
// "Carrier Phase Rate Step L1", "Code Rate L1" and "Code Rate Step L1"
// blocks.
func applyRateMonitors(rec *Record, carry *CarryOver, deltaT float64, conf Conf) (rejected bool) {
	if conf.MaxPhaseRate.Enabled {
		rec.PhaseRateL1 = (rec.L1Meters - carry.PrevL1) / deltaT
		if math.Abs(rec.PhaseRateL1) > conf.MaxPhaseRate.Threshold {
			raiseFlag(rec, RejMaxPhaseRate)
			carry.ResetHatchFilter = true
			return true
		}
	}

	if conf.MaxPhaseRateStep.Enabled && carry.PrevPhaseRateL1 != 0 {
		rec.PhaseRateStepL1 = (rec.PhaseRateL1 - carry.PrevPhaseRateL1) / deltaT
		if math.Abs(rec.PhaseRateStepL1) > conf.MaxPhaseRateStep.Threshold {
			raiseFlag(rec, RejMaxPhaseRateStep)
			carry.ResetHatchFilter = true
			return true
		}
	}

	if conf.MaxCodeRate.Enabled {
		rec.RangeRateL1 = (rec.SmoothC1 - carry.PrevSmoothC1) / deltaT
		if math.Abs(rec.RangeRateL1) > conf.MaxCodeRate.Threshold {
			raiseFlag(rec, RejMaxCodeRate)
			carry.ResetHatchFilter = true
			return true
		}
	}

	if conf.MaxCodeRateStep.Enabled && carry.PrevRangeRateL1 != 0 {
		rec.RangeRateStepL1 = (rec.RangeRateL1 - carry.PrevRangeRateL1) / deltaT
		if math.Abs(rec.RangeRateStepL1) > conf.MaxCodeRateStep.Threshold {
			raiseFlag(rec, RejMaxCodeRateStep)
			carry.ResetHatchFilter = true
			return true
		}
	}

	return false
}
