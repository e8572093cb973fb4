// Package ingest reads raw GNSS observations from an external source and
// groups them into per-epoch batches for preproc.Engine.Run. It never
// interprets the measurements themselves; that belongs entirely to
// pkg/preproc.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// LineReader parses the positional text observation schema of spec.md §6:
// one satellite per line, fields CONST PRN SOD DOY ELEV AZIM C1 L1 S1 P2
// L2 S2, whitespace-separated. Consecutive lines sharing the same SOD
// belong to the same epoch; a SOD change flushes the accumulated epoch.
//
// No parsing library (participle, CSV-with-schema, etc.) appears anywhere
// in the retrieved pack for a line format this simple, so this reader is
// built directly on bufio.Scanner + strconv, in the style of the teacher's
// own small single-purpose helpers (pkg/caster/sourcetable.go's line-based
// sourcetable formatting).
type LineReader struct {
	scanner *bufio.Scanner
	pending preproc.RawObservation
	havePending bool
	lineNo  int
}

// NewLineReader wraps r for epoch-at-a-time reading.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next complete epoch's observations. It returns io.EOF
// once the underlying reader is exhausted and every buffered observation
// has been delivered.
func (lr *LineReader) Next() ([]preproc.RawObservation, error) {
	var epoch []preproc.RawObservation

	if lr.havePending {
		epoch = append(epoch, lr.pending)
		lr.havePending = false
	}

	for lr.scanner.Scan() {
		lr.lineNo++
		line := strings.TrimSpace(lr.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		obs, err := parseObservationLine(line)
		if err != nil {
			return epoch, fmt.Errorf("ingest: line %d: %w", lr.lineNo, err)
		}

		if len(epoch) > 0 && obs.Sod != epoch[0].Sod {
			lr.pending = obs
			lr.havePending = true
			return epoch, nil
		}
		epoch = append(epoch, obs)
	}

	if err := lr.scanner.Err(); err != nil {
		return epoch, err
	}
	if len(epoch) == 0 {
		return nil, io.EOF
	}
	return epoch, nil
}

func parseObservationLine(line string) (preproc.RawObservation, error) {
	fields := strings.Fields(line)
	if len(fields) != 12 {
		return preproc.RawObservation{}, fmt.Errorf("expected 12 fields, got %d", len(fields))
	}

	var (
		obs preproc.RawObservation
		err error
	)

	obs.Const = fields[0]
	if obs.PRN, err = strconv.Atoi(fields[1]); err != nil {
		return obs, fmt.Errorf("PRN: %w", err)
	}
	if obs.Sod, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return obs, fmt.Errorf("SOD: %w", err)
	}
	if obs.Doy, err = strconv.Atoi(fields[3]); err != nil {
		return obs, fmt.Errorf("DOY: %w", err)
	}
	if obs.Elev, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return obs, fmt.Errorf("ELEV: %w", err)
	}
	if obs.Azim, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return obs, fmt.Errorf("AZIM: %w", err)
	}
	if obs.C1, err = strconv.ParseFloat(fields[6], 64); err != nil {
		return obs, fmt.Errorf("C1: %w", err)
	}
	if obs.L1, err = strconv.ParseFloat(fields[7], 64); err != nil {
		return obs, fmt.Errorf("L1: %w", err)
	}
	if obs.S1, err = strconv.ParseFloat(fields[8], 64); err != nil {
		return obs, fmt.Errorf("S1: %w", err)
	}
	if obs.P2, err = strconv.ParseFloat(fields[9], 64); err != nil {
		return obs, fmt.Errorf("P2: %w", err)
	}
	if obs.L2, err = strconv.ParseFloat(fields[10], 64); err != nil {
		return obs, fmt.Errorf("L2: %w", err)
	}
	if obs.S2, err = strconv.ParseFloat(fields[11], 64); err != nil {
		return obs, fmt.Errorf("S2: %w", err)
	}

	return obs, nil
}
