package preproc

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultTestConf returns a Conf with every optional gate enabled at
// generous thresholds, reused across this package's test files so each
// test only overrides what it's exercising.
func defaultTestConf() Conf {
	return Conf{
		NChannelsGPS: 8,
		NChannelsGAL: 8,
		SamplingRate: 1,
		HatchTime:    100,
		HatchStateF:  0.5,
		HatchGapTh:   10,
		MinCNR:           Gate{Enabled: true, Threshold: 20},
		MaxPsrOutrng:     Gate{Enabled: true, Threshold: 3e7},
		MinNcsTh:         Gate{Enabled: true, Threshold: 0.5},
		MaxPhaseRate:     Gate{Enabled: true, Threshold: 1000},
		MaxPhaseRateStep: Gate{Enabled: true, Threshold: 1000},
		MaxCodeRate:      Gate{Enabled: true, Threshold: 1000},
		MaxCodeRateStep:  Gate{Enabled: true, Threshold: 1000},
	}
}

func defaultTestRcvr() Rcvr {
	return Rcvr{MaskAngle: 5}
}

func baseObs(sat string, sod float64) RawObservation {
	var constellation string
	var prn int
	switch sat[0] {
	case 'G':
		constellation, prn = "G", 1
	case 'E':
		constellation, prn = "E", 1
	}
	return RawObservation{
		Const: constellation,
		PRN:   prn,
		Sod:   sod,
		Doy:   100,
		Elev:  45,
		Azim:  180,
		C1:    2.1e7,
		L1:    1e8,
		S1:    45,
		P2:    2.1e7,
		L2:    7.8e7,
		S2:    43,
	}
}

// S1: clean run of consecutive epochs at the nominal sampling rate never
// rejects a satellite and grows Ksmooth by Δt every epoch (I3, P1, P4).
func TestEngineScenarioS1CleanRun(t *testing.T) {
	conf := defaultTestConf()
	eng, err := NewEngine(conf, defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	var last []*Record
	for sod := 1.0; sod <= 5; sod++ {
		obs := []RawObservation{baseObs("G01", sod)}
		last = eng.Run(obs, store)
		for _, r := range last {
			assert.Equal(t, RejNone, r.RejectionCause)
			assert.True(t, r.ValidL1)
		}
	}

	carry := store.Get("G01")
	assert.Equal(t, 5.0, carry.Ksmooth)
	assert.Equal(t, 5.0, carry.PrevEpoch)
}

// S4 / P4: a data gap exceeding HATCH_GAP_TH is reported and restarts the
// smoother from the raw code on the next epoch.
func TestEngineScenarioS4DataGapResetsSmoother(t *testing.T) {
	conf := defaultTestConf()
	eng, err := NewEngine(conf, defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	eng.Run([]RawObservation{baseObs("G01", 1)}, store)
	eng.Run([]RawObservation{baseObs("G01", 2)}, store)

	gapObs := baseObs("G01", 20) // Δt = 18 > HatchGapTh(10)
	recs := eng.Run([]RawObservation{gapObs}, store)

	require.Len(t, recs, 1)
	assert.Equal(t, RejDataGap, recs[0].RejectionCause)
	assert.False(t, recs[0].ValidL1)
	assert.Equal(t, gapObs.C1, recs[0].SmoothC1)
	assert.Equal(t, 0.0, store.Get("G01").Ksmooth)
}

// P6 / I8: when more satellites are active than NCHANNELS_GPS allows, the
// lowest-elevation surplus is rejected, ties broken by ascending PRN.
func TestEngineScenarioChannelAdmission(t *testing.T) {
	conf := defaultTestConf()
	conf.NChannelsGPS = 2
	eng, err := NewEngine(conf, defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	low := RawObservation{Const: "G", PRN: 3, Sod: 1, Elev: 10, C1: 2.1e7, L1: 1e8, S1: 45, L2: 7.8e7}
	mid := RawObservation{Const: "G", PRN: 2, Sod: 1, Elev: 20, C1: 2.1e7, L1: 1e8, S1: 45, L2: 7.8e7}
	high := RawObservation{Const: "G", PRN: 1, Sod: 1, Elev: 60, C1: 2.1e7, L1: 1e8, S1: 45, L2: 7.8e7}

	recs := eng.Run([]RawObservation{low, mid, high}, store)

	byID := map[string]*Record{}
	for _, r := range recs {
		byID[r.Sat] = r
	}

	assert.Equal(t, RejNChannelsGPS, byID["G03"].RejectionCause)
	assert.True(t, byID["G02"].ValidL1)
	assert.True(t, byID["G01"].ValidL1)
}

// P5: consecutive accepted epochs advance Ksmooth by exactly Δt.
func TestEngineKsmoothAdvancesByDeltaT(t *testing.T) {
	conf := defaultTestConf()
	eng, err := NewEngine(conf, defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	eng.Run([]RawObservation{baseObs("G01", 1)}, store)
	before := store.Get("G01").Ksmooth
	eng.Run([]RawObservation{baseObs("G01", 2)}, store)
	after := store.Get("G01").Ksmooth

	assert.Equal(t, 1.0, after-before)
}

// P8: a satellite missing L2 never receives a geometry-free combination.
func TestEngineNoL2SkipsGeomFree(t *testing.T) {
	conf := defaultTestConf()
	eng, err := NewEngine(conf, defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	obs := baseObs("G01", 1)
	obs.L2 = 0
	recs := eng.Run([]RawObservation{obs}, store)

	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].GeomFree)
}

// SetLogger is nil-safe: it must not panic and must leave the engine
// silently running as before.
func TestEngineSetLoggerNilIsNoOp(t *testing.T) {
	eng, err := NewEngine(defaultTestConf(), defaultTestRcvr())
	require.NoError(t, err)
	store := NewStore()

	assert.NotPanics(t, func() { eng.SetLogger(nil) })

	obs := baseObs("G01", 1)
	obs.Elev = 0 // below MaskAngle(5), forces a rejection
	recs := eng.Run([]RawObservation{obs}, store)
	assert.Equal(t, RejMaskAngle, recs[0].RejectionCause)
}

// Once SetLogger is called, every rejection logs sat/cause/sod at Debug
// level.
func TestEngineSetLoggerLogsRejections(t *testing.T) {
	eng, err := NewEngine(defaultTestConf(), defaultTestRcvr())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	eng.SetLogger(logger)
	store := NewStore()

	obs := baseObs("G01", 1)
	obs.Elev = 0 // below MaskAngle(5), forces a rejection
	eng.Run([]RawObservation{obs}, store)

	require.Len(t, hook.Entries, 1)
	entry := hook.Entries[0]
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "G01", entry.Data["sat"])
	assert.Equal(t, RejMaskAngle.String(), entry.Data["cause"])
	assert.Equal(t, 1.0, entry.Data["sod"])
}

// A Hatch reset (a data gap here) logs separately from the rejection, so
// both are visible even when the record stays valid on the reset epoch.
func TestEngineSetLoggerLogsHatchReset(t *testing.T) {
	eng, err := NewEngine(defaultTestConf(), defaultTestRcvr())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	eng.SetLogger(logger)
	store := NewStore()

	eng.Run([]RawObservation{baseObs("G01", 1)}, store)
	hook.Reset()

	gapObs := baseObs("G01", 20) // Δt = 19 > HatchGapTh(10)
	eng.Run([]RawObservation{gapObs}, store)

	var sawReset bool
	for _, entry := range hook.Entries {
		if entry.Message == "preproc: hatch reset" {
			sawReset = true
		}
	}
	assert.True(t, sawReset)
}

func TestNewEngineRejectsInvalidConf(t *testing.T) {
	conf := defaultTestConf()
	conf.SamplingRate = 0
	_, err := NewEngine(conf, defaultTestRcvr())
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
