package preproc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Engine runs the per-epoch preprocessing pipeline described in spec §2:
// admission, quality gates, gap detection, cycle-slip detection, Hatch
// smoothing, rate monitoring and the geometry-free combination, in that
// fixed order, against a caller-owned Store of per-satellite carry-over
// state.
//
// An Engine is safe for reuse across epochs as long as each epoch's Store
// is not accessed concurrently (spec §5): it holds only configuration and
// an optional logger, never per-satellite state.
type Engine struct {
	conf   Conf
	rcvr   Rcvr
	logger logrus.FieldLogger
}

// NewEngine validates conf and returns an Engine ready to process epochs.
// The engine logs nowhere until SetLogger is called.
func NewEngine(conf Conf, rcvr Rcvr) (*Engine, error) {
	if err := validateConf(conf); err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &Engine{conf: conf, rcvr: rcvr, logger: discard}, nil
}

// SetLogger wires a field logger into the engine, mirroring
// Server.SetDataSource's post-construction setter. Every rejection and
// Hatch reset is then reported at Debug level with sat/cause/sod fields.
// A nil logger is a no-op, so callers that never touch logging keep a
// silent engine.
func (e *Engine) SetLogger(logger logrus.FieldLogger) {
	if logger == nil {
		return
	}
	e.logger = logger
}

func (e *Engine) logRejection(rec *Record) {
	e.logger.WithFields(logrus.Fields{
		"sat":   rec.Sat,
		"cause": rec.RejectionCause.String(),
		"sod":   rec.Sod,
	}).Debug("preproc: rejected")
}

func (e *Engine) logHatchReset(rec *Record) {
	e.logger.WithFields(logrus.Fields{
		"sat": rec.Sat,
		"sod": rec.Sod,
	}).Debug("preproc: hatch reset")
}

// Run preprocesses one epoch's worth of raw observations against store
// and returns one Record per observation, in the order the component
// pipeline produces them (admission may reorder rejection but never the
// output slice). Run never mutates obs.
func (e *Engine) Run(obs []RawObservation, store *Store) []*Record {
	recs := make([]*Record, len(obs))
	for i, o := range obs {
		recs[i] = newRecord(o, store.Get(o.SatID()))
	}

	applyChannelAdmission(e.conf, recs)

	for _, rec := range recs {
		if !rec.ValidL1 {
			carry := store.Get(rec.Sat)
			updateCarryOver(rec, carry, false)
			e.logRejection(rec)
			continue
		}

		carry := store.Get(rec.Sat)
		hatchReset := e.processSatellite(rec, carry)
		updateCarryOver(rec, carry, hatchReset)

		if !rec.ValidL1 {
			e.logRejection(rec)
		}
		if hatchReset {
			e.logHatchReset(rec)
		}
	}

	return recs
}

// newRecord populates a Record's basic fields from a raw observation,
// ahead of any gating. This mirrors the unconditional field population
// that precedes the per-satellite quality-check loop in
// _examples/original_source/Preprocessing.py's runPreProcMeas.
func newRecord(o RawObservation, carry *CarryOver) *Record {
	return &Record{
		Sat:          o.SatID(),
		Sod:          o.Sod,
		Doy:          o.Doy,
		Elev:         o.Elev,
		Azim:         o.Azim,
		C1:           o.C1,
		L1:           o.L1,
		S1:           o.S1,
		P2:           o.P2,
		L2:           o.L2,
		S2:           o.S2,
		L1Meters:     o.L1 * LambdaL1,
		GeomFreePrev: carry.PrevGeomFree,
		Mpp:          MappingFunction(o.Elev),
		ValidL1:      true,
	}
}

// processSatellite runs the gates through iono-combination stages for a
// satellite that survived channel admission, and reports whether a Hatch
// reset was in effect this epoch (needed by the carry-over update).
func (e *Engine) processSatellite(rec *Record, carry *CarryOver) (hatchReset bool) {
	if applyQualityGates(rec, e.rcvr, e.conf) {
		return false
	}

	deltaT := computeDeltaT(rec.Sod, carry.PrevEpoch, e.conf.SamplingRate)
	hatchReset = detectGap(rec, carry, deltaT, e.conf)

	if e.conf.MinNcsTh.Enabled && !hatchReset {
		verdict := detectCycleSlip(rec.L1, rec.Sod, carry, e.conf.MinNcsTh.Threshold)
		carry.pushCsVerdict(verdict)
		if verdict {
			if carry.CsIdx == 3 {
				hatchReset = true
				raiseFlag(rec, RejCycleSlip)
			} else {
				raiseFlag(rec, RejCycleSlip)
				return hatchReset
			}
		}
	}

	if carry.ResetHatchFilter {
		hatchReset = true
		carry.ResetHatchFilter = false
	}

	applyHatchFilter(rec, carry, hatchReset, deltaT, e.conf)

	// A first sighting (PrevEpoch == 0) has no previous phase or code to
	// difference against, so the rate monitors only run from the second
	// accepted epoch on.
	if !hatchReset && rec.ValidL1 && carry.PrevEpoch != 0 {
		if applyRateMonitors(rec, carry, deltaT, e.conf) {
			return hatchReset
		}
	}

	applyGeomFree(rec, carry, hatchReset)

	return hatchReset
}

// updateCarryOver folds one satellite's finished Record back into its
// CarryOver (spec §4.8). Grounded on
// _examples/original_source/PreprocessingFunc.py's UpdatePrevPro, with the
// Ksmooth scoping and PrevPhaseRateL1/PrevRangeRateL1/PrevGeomFree updates
// resolved per spec §9 Open Questions 2 and 3.
func updateCarryOver(rec *Record, carry *CarryOver, hatchReset bool) {
	carry.PrevRej = rec.RejectionCause

	if rec.RejectionCause == RejNone || hatchReset {
		carry.PrevEpoch = rec.Sod
	}

	if rec.RejectionCause == RejNone {
		carry.L1n3, carry.L1n2, carry.L1n1 = carry.L1n2, carry.L1n1, rec.L1
		carry.Tn3, carry.Tn2, carry.Tn1 = carry.Tn2, carry.Tn1, rec.Sod
	}

	if hatchReset {
		carry.resetCycleSlipHistory(rec.L1, rec.Sod)
	}

	if rec.RejectionCause == RejNone {
		carry.ResetHatchFilter = false
	}

	carry.PrevL1 = rec.L1Meters
	carry.PrevSmoothC1 = rec.SmoothC1
	carry.PrevPhaseRateL1 = rec.PhaseRateL1
	carry.PrevRangeRateL1 = rec.RangeRateL1

	if rec.ValidL1 && rec.L2 > 0 {
		carry.PrevGeomFree = rec.GeomFree
		carry.PrevGeomFreeEpoch = rec.Sod
	}
}
