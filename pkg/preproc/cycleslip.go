package preproc

import "math"

// detectCycleSlip applies the TOD (third-order-difference) phase-prediction
// test of spec §4.4. It returns false whenever the satellite's carry-over
// history is not yet full (I5, P7) — three consecutive accepted epochs are
// needed before a prediction can be formed. Grounded on
// _examples/original_source/PreprocessingFunc.py's DetectCycleSlip.
func detectCycleSlip(l1Cycles, sod float64, carry *CarryOver, threshold float64) bool {
	if carry.Tn1 == 0 || carry.Tn2 == 0 || carry.Tn3 == 0 {
		return false
	}

	tau1 := sod - carry.Tn1
	tau2 := carry.Tn1 - carry.Tn2
	tau3 := carry.Tn2 - carry.Tn3

	r1 := (tau1 + tau2) * (tau1 + tau2 + tau3) / (tau2 * (tau2 + tau3))
	r2 := -tau1 * (tau1 + tau2 + tau3) / (tau2 * tau3)
	r3 := tau1 * (tau1 + tau2) / ((tau2 + tau3) * tau3)

	predicted := r1*carry.L1n1 + r2*carry.L1n2 + r3*carry.L1n3
	residual := math.Abs(l1Cycles - predicted)

	return residual > threshold
}
