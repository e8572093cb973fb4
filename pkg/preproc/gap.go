package preproc

// computeDeltaT returns the elapsed time since the satellite's last known
// epoch. A zero PrevEpoch means the satellite has never been seen before,
// in which case the nominal sampling rate stands in for Δt (spec §4.3).
func computeDeltaT(sod, prevEpoch float64, samplingRate int) float64 {
	if prevEpoch == 0 {
		return float64(samplingRate)
	}
	return sod - prevEpoch
}

// detectGap flags a data gap when Δt exceeds HATCH_GAP_TH. It always
// latches a Hatch reset when a gap is found, but suppresses the
// RejectionCause assignment when the previous epoch was itself rejected
// for being outside the visibility window (spec §4.3, §9 Open Question 1).
// Grounded on _examples/original_source/Preprocessing.py's "Detect Data
// Gaps" block.
func detectGap(rec *Record, carry *CarryOver, deltaT float64, conf Conf) (hatchReset bool) {
	if deltaT <= float64(conf.HatchGapTh) {
		return false
	}

	hatchReset = true
	if carry.PrevRej != RejDataGapFromVisibility {
		raiseFlag(rec, RejDataGap)
	}
	return hatchReset
}
