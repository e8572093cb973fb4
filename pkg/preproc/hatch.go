package preproc

// applyHatchFilter carrier-smooths the pseudorange and reports the
// resulting Ksmooth' and convergence Status (spec §4.5). On reset it
// restarts from the raw code measurement; otherwise it propagates the
// previous smoothed value forward by the phase delta and blends it with
// the raw code at a weight that decays as Ksmooth approaches HATCH_TIME.
// Grounded on _examples/original_source/Preprocessing.py's "Hatch Filter
// implementation" block.
func applyHatchFilter(rec *Record, carry *CarryOver, hatchReset bool, deltaT float64, conf Conf) {
	var ksmoothPrime float64

	if hatchReset {
		ksmoothPrime = 0
		rec.SmoothC1 = rec.C1
	} else {
		ksmoothPrime = carry.Ksmooth + deltaT
		window := ksmoothPrime
		if window > float64(conf.HatchTime) {
			window = float64(conf.HatchTime)
		}
		alpha := deltaT / window
		predicted := carry.PrevSmoothC1 + (rec.L1Meters - carry.PrevL1)
		rec.SmoothC1 = alpha*rec.C1 + (1-alpha)*predicted
	}

	carry.Ksmooth = ksmoothPrime
	rec.Status = ksmoothPrime > conf.HatchConvergenceSeconds() && rec.ValidL1
}
