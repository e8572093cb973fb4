package preproc

import "fmt"

// RejectionCause classifies why a measurement was rejected (spec §7). The
// numeric values are authoritative and must not be renumbered: downstream
// consumers and historical logs depend on them.
type RejectionCause int

const (
	RejNone             RejectionCause = 0
	RejNChannelsGPS     RejectionCause = 1
	RejNChannelsGAL     RejectionCause = 2
	RejMaskAngle        RejectionCause = 3
	RejMinCNR           RejectionCause = 4
	RejCycleSlip        RejectionCause = 5
	RejDataGap          RejectionCause = 6
	RejMaxPsrOutrng     RejectionCause = 7
	RejMaxPhaseRate     RejectionCause = 8
	RejMaxPhaseRateStep RejectionCause = 9
	RejMaxCodeRate      RejectionCause = 10
	RejMaxCodeRateStep  RejectionCause = 11

	// RejDataGapFromVisibility is RejNChannelsGAL's numeric value reused as
	// the "previous rejection was itself a visibility-induced gap" marker
	// (spec §4.3, §9 Open Question 1). The coincidence with NCHANNELS_GAL
	// is in the original source, not a typo here; it is named so the
	// ambiguity is explicit at the call site instead of a bare literal 2.
	RejDataGapFromVisibility = RejNChannelsGAL
)

var rejectionCauseNames = map[RejectionCause]string{
	RejNone:             "NONE",
	RejNChannelsGPS:     "NCHANNELS_GPS",
	RejNChannelsGAL:     "NCHANNELS_GAL",
	RejMaskAngle:        "MASKANGLE",
	RejMinCNR:           "MIN_CNR",
	RejCycleSlip:        "CYCLE_SLIP",
	RejDataGap:          "DATA_GAP",
	RejMaxPsrOutrng:     "MAX_PSR_OUTRNG",
	RejMaxPhaseRate:     "MAX_PHASE_RATE",
	RejMaxPhaseRateStep: "MAX_PHASE_RATE_STEP",
	RejMaxCodeRate:      "MAX_CODE_RATE",
	RejMaxCodeRateStep:  "MAX_CODE_RATE_STEP",
}

func (r RejectionCause) String() string {
	if name, ok := rejectionCauseNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RejectionCause(%d)", int(r))
}

// RawObservation is one satellite's raw dual-frequency observation for one
// epoch, following the positional field schema of spec.md §6.
type RawObservation struct {
	Const string // constellation tag: "G" (GPS) or "E" (Galileo)
	PRN   int
	Sod   float64 // second of day
	Doy   int     // day of year
	Elev  float64 // elevation, degrees
	Azim  float64 // azimuth, degrees
	C1    float64 // L1 C/A pseudorange, m
	L1    float64 // L1 carrier phase, cycles
	S1    float64 // L1 C/N0, dB-Hz
	P2    float64 // L2 P pseudorange, m
	L2    float64 // L2 carrier phase, cycles
	S2    float64 // L2 C/N0, dB-Hz
}

// SatID returns the two-character constellation tag concatenated with the
// two-digit PRN, e.g. "G07".
func (o RawObservation) SatID() string {
	return fmt.Sprintf("%s%02d", o.Const, o.PRN)
}

// Record is the preprocessed, per-satellite output of one epoch (spec §3).
type Record struct {
	Sat  string
	Sod  float64
	Doy  int
	Elev float64
	Azim float64

	C1 float64
	L1 float64 // cycles, as received
	S1 float64
	P2 float64
	L2 float64
	S2 float64

	L1Meters float64 // L1 * lambda1
	SmoothC1 float64

	GeomFree     float64
	GeomFreePrev float64

	ValidL1        bool
	RejectionCause RejectionCause

	// Status is true iff the Hatch filter has converged (spec §4.5, I6).
	Status bool

	RangeRateL1      float64
	RangeRateStepL1  float64
	PhaseRateL1      float64
	PhaseRateStepL1  float64

	VtecRate float64
	IAATR    float64
	Mpp      float64
}

// Gate is an {enabled, threshold} pair, replacing the source's loose
// [enable, threshold] tuple configuration (spec §9 Design Notes).
type Gate struct {
	Enabled   bool
	Threshold float64
}

// Conf mirrors spec.md §6's Conf mapping as a typed struct.
type Conf struct {
	NChannelsGPS int
	NChannelsGAL int

	SamplingRate int // nominal epoch spacing, seconds

	HatchTime    int     // seconds
	HatchStateF  float64 // fraction of HatchTime required for convergence
	HatchGapTh   int     // seconds

	MinCNR           Gate
	MaxPsrOutrng     Gate
	MinNcsTh         Gate
	MaxPhaseRate     Gate
	MaxPhaseRateStep Gate
	MaxCodeRate      Gate
	MaxCodeRateStep  Gate

	ElevNoiseTh float64 // reserved, spec §6
}

// HatchConvergenceSeconds returns the number of continuous smoothing
// seconds (Ksmooth) required before Status flips to converged (spec §4.5).
func (c Conf) HatchConvergenceSeconds() float64 {
	return c.HatchStateF * float64(c.HatchTime)
}

// Rcvr mirrors spec.md §6's Rcvr mapping.
type Rcvr struct {
	MaskAngle float64 // degrees
}
