package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// RecordSource is anything that can be drained for per-epoch Record
// batches; *ntrip.EpochProcessor satisfies it via its Records method.
type RecordSource interface {
	Records() <-chan []*preproc.Record
}

// EpochFeed adapts a RecordSource into the byte-stream DataSource the
// NTRIP server relays: each epoch's Records are newline-delimited JSON
// encoded and pushed onto the byte channel, one write per epoch. This
// replaces RTCMDataSource/FileDataSource, which read raw bytes from a
// gnssgo.Stream this module no longer carries — there is no wire codec at
// this layer (spec.md §6), only the preprocessed Record stream.
type EpochFeed struct {
	source RecordSource
	logger logrus.FieldLogger

	dataChan chan []byte
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	mutex    sync.Mutex
}

// NewEpochFeed builds a feed over source. logger may be nil.
func NewEpochFeed(source RecordSource, logger logrus.FieldLogger) *EpochFeed {
	if logger == nil {
		logger = logrus.New()
	}
	return &EpochFeed{
		source:   source,
		logger:   logger,
		dataChan: make(chan []byte, 16),
	}
}

// Start implements server.DataSource.
func (f *EpochFeed) Start() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.running {
		return nil
	}

	f.ctx, f.cancel = context.WithCancel(context.Background())
	go f.run()
	f.running = true
	return nil
}

// Stop implements server.DataSource.
func (f *EpochFeed) Stop() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if !f.running {
		return nil
	}

	f.cancel()
	f.running = false
	return nil
}

// Data implements server.DataSource.
func (f *EpochFeed) Data() <-chan []byte {
	return f.dataChan
}

func (f *EpochFeed) run() {
	for {
		select {
		case <-f.ctx.Done():
			return
		case recs, ok := <-f.source.Records():
			if !ok {
				return
			}
			f.publish(recs)
		}
	}
}

func (f *EpochFeed) publish(recs []*preproc.Record) {
	var buf []byte
	for _, r := range recs {
		line, err := json.Marshal(r)
		if err != nil {
			f.logger.WithError(err).Warn("failed to encode record")
			continue
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	if len(buf) == 0 {
		return
	}

	select {
	case f.dataChan <- buf:
	default:
		f.logger.Warn("epoch feed channel full, dropping epoch")
	}
}
