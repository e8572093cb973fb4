package preproc

// CarryOver is the cross-epoch state for one satellite (spec §3). It is
// created with zero values the first time a satellite is seen; a zero
// PrevEpoch means "first appearance" throughout this package (spec §4.3).
type CarryOver struct {
	// TOD phase history for the cycle-slip detector (spec §4.4).
	L1n1, L1n2, L1n3 float64
	Tn1, Tn2, Tn3    float64

	PrevL1           float64
	PrevSmoothC1     float64
	PrevRangeRateL1  float64
	PrevPhaseRateL1  float64

	PrevGeomFree      float64
	PrevGeomFreeEpoch float64

	PrevEpoch float64
	PrevRej   RejectionCause

	// CsBuff is the fixed-length (3) cycle-slip verdict shift register
	// (spec I4). CsIdx always equals the sum of CsBuff.
	CsBuff [3]int
	CsIdx  int

	// Ksmooth is the number of seconds of continuous Hatch smoothing
	// accumulated since the last reset (spec I3).
	Ksmooth float64

	// ResetHatchFilter latches a smoother reset request for the next
	// epoch (set by the rate monitors, spec §4.6).
	ResetHatchFilter bool
}

// pushCsVerdict shifts verdict into the 3-slot buffer (FIFO, oldest
// dropped first) and keeps CsIdx in sync (spec §4.4, I4). Grounded on
// _examples/original_source/PreprocessingFunc.py's UpdateBuff.
func (c *CarryOver) pushCsVerdict(verdict bool) {
	c.CsBuff[0] = c.CsBuff[1]
	c.CsBuff[1] = c.CsBuff[2]
	if verdict {
		c.CsBuff[2] = 1
	} else {
		c.CsBuff[2] = 0
	}
	c.CsIdx = c.CsBuff[0] + c.CsBuff[1] + c.CsBuff[2]
}

// resetCycleSlipHistory clears the TOD phase history except for the
// current epoch's sample, and clears the cycle-slip buffer. Grounded on
// PreprocessingFunc.py's ResetCsDetector + ResetBuff, invoked together
// whenever a Hatch reset is latched (spec §4.8).
func (c *CarryOver) resetCycleSlipHistory(l1Cycles, sod float64) {
	c.L1n3, c.L1n2, c.L1n1 = 0, 0, l1Cycles
	c.Tn3, c.Tn2, c.Tn1 = 0, 0, sod
	c.CsBuff = [3]int{0, 0, 0}
	c.CsIdx = 0
}

// Store holds the per-satellite CarryOver entries across epochs. It is
// exclusively owned by the caller between calls to Engine.Run and must not
// be mutated concurrently with a Run call (spec §5).
type Store struct {
	entries map[string]*CarryOver
}

// NewStore returns an empty carry-over store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*CarryOver)}
}

// Get returns the CarryOver entry for sat, creating a zero-valued one the
// first time sat is seen (spec §3 Lifecycle).
func (s *Store) Get(sat string) *CarryOver {
	if s.entries == nil {
		s.entries = make(map[string]*CarryOver)
	}
	c, ok := s.entries[sat]
	if !ok {
		c = &CarryOver{}
		s.entries[sat] = c
	}
	return c
}

// Len reports the number of known satellites.
func (s *Store) Len() int {
	return len(s.entries)
}
