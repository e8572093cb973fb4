package preproc

// applyQualityGates evaluates the fixed-order, independent reject
// predicates of spec §4.2. It returns true if the satellite was rejected
// (the caller must short-circuit the remainder of the per-satellite
// pipeline for this epoch). Grounded on
// _examples/original_source/Preprocessing.py's "QUALITY CHECKS AND SIGNAL
// SMOOTHING" block, the first three checks before gap detection.
func applyQualityGates(rec *Record, rcvr Rcvr, conf Conf) bool {
	if rec.Elev < rcvr.MaskAngle {
		raiseFlag(rec, RejMaskAngle)
		return true
	}

	if conf.MinCNR.Enabled && rec.S1 < conf.MinCNR.Threshold {
		raiseFlag(rec, RejMinCNR)
		return true
	}

	if conf.MaxPsrOutrng.Enabled && rec.C1 > conf.MaxPsrOutrng.Threshold {
		raiseFlag(rec, RejMaxPsrOutrng)
		return true
	}

	return false
}
