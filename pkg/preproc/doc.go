// Package preproc implements the per-epoch, per-satellite GNSS measurement
// validation and carrier-smoothing engine: channel admission, quality
// gating, gap detection, cycle-slip detection, Hatch carrier smoothing,
// code/phase rate monitoring and the geometry-free ionospheric combination.
//
// The engine is a pure, single-threaded library: it performs no I/O and
// holds no global state. Callers own an epoch loop, a Store of per-satellite
// carry-over state, and hand both to Engine.Run once per epoch. Reading
// observation files, writing results, and plotting are the caller's concern.
package preproc
