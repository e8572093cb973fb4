// Package config loads the preprocessing engine's configuration: the
// per-constellation channel caps, gate thresholds and receiver mask angle
// described in spec.md §6's Conf/Rcvr mapping.
//
// No third-party configuration or CLI-flag library (viper, cobra, pflag)
// appears anywhere in the retrieved pack, so this loader is built directly
// on the standard flag package, in the shape of
// cmd/rtk2go-test/main.go's flag-based CLI.
package config

import (
	"flag"
	"fmt"

	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// Loader accumulates flag definitions and produces a preproc.Conf/
// preproc.Rcvr pair once Parse is called. The pair is not validated here;
// pass the Conf to Validate (or preproc.NewEngine) for that.
type Loader struct {
	fs *flag.FlagSet

	nChannelsGPS *int
	nChannelsGAL *int
	samplingRate *int
	hatchTime    *int
	hatchStateF  *float64
	hatchGapTh   *int

	maskAngle *float64

	minCNREnabled       *bool
	minCNRThreshold     *float64
	maxPsrEnabled       *bool
	maxPsrThreshold     *float64
	minNcsEnabled       *bool
	minNcsThreshold     *float64
	maxPhRateEnabled    *bool
	maxPhRateThreshold  *float64
	maxPhStepEnabled    *bool
	maxPhStepThreshold  *float64
	maxCodeRateEnabled  *bool
	maxCodeRateThresh   *float64
	maxCodeStepEnabled  *bool
	maxCodeStepThresh   *float64
}

// NewLoader registers every preprocessing flag on fs using the defaults
// from the PETRUS reference configuration. Passing flag.CommandLine lets
// callers parse os.Args directly; a fresh flag.NewFlagSet is preferable in
// tests.
func NewLoader(fs *flag.FlagSet) *Loader {
	l := &Loader{fs: fs}

	l.nChannelsGPS = fs.Int("nchannels-gps", 12, "maximum admitted GPS channels per epoch")
	l.nChannelsGAL = fs.Int("nchannels-gal", 8, "maximum admitted Galileo channels per epoch")
	l.samplingRate = fs.Int("sampling-rate", 1, "nominal epoch spacing, seconds")
	l.hatchTime = fs.Int("hatch-time", 300, "Hatch filter time constant, seconds")
	l.hatchStateF = fs.Float64("hatch-state-f", 0.5, "fraction of hatch-time required for smoother convergence")
	l.hatchGapTh = fs.Int("hatch-gap-threshold", 10, "data-gap threshold that forces a smoother reset, seconds")

	l.maskAngle = fs.Float64("mask-angle", 5, "receiver elevation mask angle, degrees")

	l.minCNREnabled = fs.Bool("min-cnr-enabled", true, "enable the minimum C/N0 gate")
	l.minCNRThreshold = fs.Float64("min-cnr-threshold", 30, "minimum C/N0, dB-Hz")
	l.maxPsrEnabled = fs.Bool("max-psr-outrng-enabled", true, "enable the maximum pseudorange gate")
	l.maxPsrThreshold = fs.Float64("max-psr-outrng-threshold", 3.0e7, "maximum admissible pseudorange, m")
	l.minNcsEnabled = fs.Bool("cycle-slip-enabled", true, "enable the cycle-slip detector")
	l.minNcsThreshold = fs.Float64("cycle-slip-threshold", 0.05, "cycle-slip residual threshold, cycles")
	l.maxPhRateEnabled = fs.Bool("max-phase-rate-enabled", true, "enable the phase rate monitor")
	l.maxPhRateThreshold = fs.Float64("max-phase-rate-threshold", 2, "maximum phase rate, m/s")
	l.maxPhStepEnabled = fs.Bool("max-phase-rate-step-enabled", true, "enable the phase rate step monitor")
	l.maxPhStepThreshold = fs.Float64("max-phase-rate-step-threshold", 1, "maximum phase rate step, m/s^2")
	l.maxCodeRateEnabled = fs.Bool("max-code-rate-enabled", true, "enable the code rate monitor")
	l.maxCodeRateThresh = fs.Float64("max-code-rate-threshold", 15, "maximum code rate, m/s")
	l.maxCodeStepEnabled = fs.Bool("max-code-rate-step-enabled", true, "enable the code rate step monitor")
	l.maxCodeStepThresh = fs.Float64("max-code-rate-step-threshold", 10, "maximum code rate step, m/s^2")

	return l
}

// Conf builds a preproc.Conf from the parsed flag values. Call after
// fs.Parse.
func (l *Loader) Conf() preproc.Conf {
	return preproc.Conf{
		NChannelsGPS: *l.nChannelsGPS,
		NChannelsGAL: *l.nChannelsGAL,
		SamplingRate: *l.samplingRate,
		HatchTime:    *l.hatchTime,
		HatchStateF:  *l.hatchStateF,
		HatchGapTh:   *l.hatchGapTh,

		MinCNR:           preproc.Gate{Enabled: *l.minCNREnabled, Threshold: *l.minCNRThreshold},
		MaxPsrOutrng:     preproc.Gate{Enabled: *l.maxPsrEnabled, Threshold: *l.maxPsrThreshold},
		MinNcsTh:         preproc.Gate{Enabled: *l.minNcsEnabled, Threshold: *l.minNcsThreshold},
		MaxPhaseRate:     preproc.Gate{Enabled: *l.maxPhRateEnabled, Threshold: *l.maxPhRateThreshold},
		MaxPhaseRateStep: preproc.Gate{Enabled: *l.maxPhStepEnabled, Threshold: *l.maxPhStepThreshold},
		MaxCodeRate:      preproc.Gate{Enabled: *l.maxCodeRateEnabled, Threshold: *l.maxCodeRateThresh},
		MaxCodeRateStep:  preproc.Gate{Enabled: *l.maxCodeStepEnabled, Threshold: *l.maxCodeStepThresh},
	}
}

// Rcvr builds a preproc.Rcvr from the parsed flag values.
func (l *Loader) Rcvr() preproc.Rcvr {
	return preproc.Rcvr{MaskAngle: *l.maskAngle}
}

// Validate is a thin wrapper that surfaces preproc's own construction-time
// validation before the engine is built. The returned error wraps the
// ConfigError with a "config:" prefix; it names the Conf field, not the
// command-line flag.
func Validate(conf preproc.Conf) error {
	if _, err := preproc.NewEngine(conf, preproc.Rcvr{}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
