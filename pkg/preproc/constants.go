package preproc

import "math"

// Physical and GNSS signal constants. Grounded on
// _examples/original_source/Preprocessing.py's Const.GPS_L1_WAVE /
// Const.GPS_L2_WAVE / Const.GPS_GAMMA_L1L2, and on the carrier-frequency
// constants in _examples/FengXuebin-gnssgo/src/common.go (CLIGHT, FREQ1,
// FREQ2). Per spec.md §1 these belong to an external "math/constants
// collaborator" in the original system; they live here as the concrete Go
// stand-in for that collaborator since the core has nowhere else to get
// them from and the spec names them by value, not by interface.
const (
	SpeedOfLight = 299792458.0 // m/s

	FreqL1 = 1575.42e6 // Hz
	FreqL2 = 1227.60e6 // Hz

	LambdaL1 = SpeedOfLight / FreqL1 // m/cycle
	LambdaL2 = SpeedOfLight / FreqL2 // m/cycle

	// GammaL1L2 = (f1/f2)^2, the ionospheric scale factor used by the
	// geometry-free combination (spec §4.7).
	GammaL1L2 = (FreqL1 / FreqL2) * (FreqL1 / FreqL2)

	earthRadiusM  = 6378136.3 // m, mean Earth radius
	ionoShellM    = 506700.0  // m, thin-shell ionosphere height (IGS convention)
)

// MappingFunction computes Mpp(el), the ionospheric obliquity (mapping)
// factor for a satellite at elevation el (degrees), using the standard
// single-layer thin-shell model. It is a pure function of elevation, as
// required by spec §4.7.
func MappingFunction(elevDeg float64) float64 {
	elevRad := elevDeg * math.Pi / 180.0
	k := (earthRadiusM / (earthRadiusM + ionoShellM)) * math.Cos(elevRad)
	return 1.0 / math.Sqrt(1.0-k*k)
}
