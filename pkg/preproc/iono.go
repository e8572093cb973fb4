package preproc

// applyGeomFree computes the geometry-free (ionospheric) combination and,
// once a previous combination exists for this satellite, its rate of
// change expressed as VTEC rate and an AATR-style indicator (spec §4.7,
// P8). It is skipped entirely whenever the L2 observation is missing, and
// the rate half is additionally skipped across a Hatch reset since the
// geometry-free value isn't comparable across the discontinuity. Grounded
// on _examples/original_source/Preprocessing.py's "SIGNAL COMBINATION TO
// COMPUTE THE IONOSPHERE" block.
func applyGeomFree(rec *Record, carry *CarryOver, hatchReset bool) {
	if !rec.ValidL1 || rec.L2 <= 0 {
		return
	}

	rec.GeomFree = (rec.L1Meters - rec.L2*LambdaL2) / (1 - GammaL1L2)

	if hatchReset || carry.PrevGeomFreeEpoch == 0 {
		return
	}

	deltaTGeom := rec.Sod - carry.PrevGeomFreeEpoch
	deltaStec := (rec.GeomFree - rec.GeomFreePrev) / deltaTGeom
	rec.VtecRate = 1000 * deltaStec / rec.Mpp
	rec.IAATR = rec.VtecRate / rec.Mpp
}
