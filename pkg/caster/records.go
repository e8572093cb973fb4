package caster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// PreprocMountpoint is the mount point this module publishes preprocessed
// epochs under, analogous to the RTCM mountpoints the sourcetable otherwise
// advertises (spec.md does not define a wire codec; NDJSON is the only
// framing a Record stream needs).
const PreprocMountpoint = "PREPRO"

// RecordPublisher pushes per-epoch Record batches into a SourceService
// mountpoint as newline-delimited JSON, so any NTRIP-speaking subscriber
// (including caster.InMemorySourceService's own Subscriber channel) can
// consume preprocessed epochs the same way it would consume an RTCM
// stream. Grounded on the teacher's Publisher/io.WriteCloser pattern in
// inmemory.go, given a concrete Record-shaped caller here.
type RecordPublisher struct {
	mount string
	w     io.WriteCloser
}

// NewRecordPublisher opens a publisher on svc for mount, defaulting to
// PreprocMountpoint when mount is empty.
func NewRecordPublisher(ctx context.Context, svc SourceService, mount string) (*RecordPublisher, error) {
	if mount == "" {
		mount = PreprocMountpoint
	}

	w, err := svc.Publisher(ctx, mount, "", "")
	if err != nil {
		return nil, fmt.Errorf("caster: opening publisher for %q: %w", mount, err)
	}

	return &RecordPublisher{mount: mount, w: w}, nil
}

// PublishEpoch marshals recs as newline-delimited JSON and writes them to
// the mountpoint in a single call, so subscribers always see a whole
// epoch or nothing.
func (p *RecordPublisher) PublishEpoch(recs []*preproc.Record) error {
	var buf []byte
	for _, r := range recs {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("caster: encoding record %s: %w", r.Sat, err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	if len(buf) == 0 {
		return nil
	}

	_, err := p.w.Write(buf)
	return err
}

// Close closes the underlying publisher.
func (p *RecordPublisher) Close() error {
	return p.w.Close()
}
