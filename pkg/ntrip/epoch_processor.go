// Package ntrip turns a stream of raw GNSS observations into preprocessed
// epochs and republishes them for downstream consumers (positioning,
// integrity monitoring, plotting — see spec.md §1). It replaces the
// teacher's RTKProcessor, which never actually drove real RTK processing:
// its Start method built an RTK server configuration it then never
// started, and GetSolution parsed NMEA GGA sentences that nothing in the
// package ever produced.
package ntrip

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnss-preproc/pkg/gnssgo/util"
	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// EpochSource yields one epoch's raw observations at a time. io.EOF ends
// the stream cleanly. pkg/ingest.LineReader implements this interface.
type EpochSource interface {
	Next() ([]preproc.RawObservation, error)
}

// Stats summarizes everything an EpochProcessor has processed so far.
type Stats struct {
	EpochsProcessed int
	Accepted        int
	Rejected        int
	RejectedByCause map[preproc.RejectionCause]int
}

// EpochProcessor drives preproc.Engine.Run over an EpochSource and
// publishes the resulting Records on a channel, mirroring the teacher's
// RTKProcessor Start/Stop/mutex shape but backed by a real pipeline
// instead of a simulated one.
type EpochProcessor struct {
	engine *preproc.Engine
	store  *preproc.Store
	source EpochSource
	logger logrus.FieldLogger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	stats Stats

	records chan []*preproc.Record
}

// NewEpochProcessor builds a processor. logger may be nil, in which case
// a discarding logger is used. The same logger is wired into engine via
// SetLogger, so per-satellite rejections and Hatch resets surface
// alongside the processor's own epoch-level log lines.
func NewEpochProcessor(engine *preproc.Engine, source EpochSource, logger logrus.FieldLogger) *EpochProcessor {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	engine.SetLogger(logger.WithField("component", "preproc"))
	return &EpochProcessor{
		engine:  engine,
		store:   preproc.NewStore(),
		source:  source,
		logger:  logger,
		records: make(chan []*preproc.Record, 8),
		stats:   Stats{RejectedByCause: make(map[preproc.RejectionCause]int)},
	}
}

// Start begins pulling epochs from the source in a background goroutine.
func (p *EpochProcessor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("ntrip: processor already running")
	}

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true

	go p.run()

	return nil
}

// Stop signals the processing goroutine to exit and waits for it.
func (p *EpochProcessor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	close(p.stop)
	p.mu.Unlock()

	<-p.done

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

// Records returns the channel of per-epoch Record batches. Consumers
// should drain it promptly; the channel is dropped (not blocked on) once
// full, matching the teacher's data-source channels.
func (p *EpochProcessor) Records() <-chan []*preproc.Record {
	return p.records
}

// Stats returns a snapshot of the processor's running totals.
func (p *EpochProcessor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := Stats{
		EpochsProcessed: p.stats.EpochsProcessed,
		Accepted:        p.stats.Accepted,
		Rejected:        p.stats.Rejected,
		RejectedByCause: make(map[preproc.RejectionCause]int, len(p.stats.RejectedByCause)),
	}
	for k, v := range p.stats.RejectedByCause {
		cp.RejectedByCause[k] = v
	}
	return cp
}

func (p *EpochProcessor) run() {
	defer close(p.done)

	for {
		select {
		case <-p.stop:
			p.logger.Info("epoch processor stopped")
			return
		default:
		}

		obs, err := p.source.Next()
		if len(obs) > 0 {
			p.processEpoch(obs)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.logger.Info("epoch source exhausted")
				return
			}
			p.logger.WithError(err).Warn("ingest error, continuing")
			select {
			case <-p.stop:
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (p *EpochProcessor) processEpoch(obs []preproc.RawObservation) {
	start := util.TickGet()
	recs := p.engine.Run(obs, p.store)

	p.mu.Lock()
	p.stats.EpochsProcessed++
	for _, r := range recs {
		if r.ValidL1 {
			p.stats.Accepted++
		} else {
			p.stats.Rejected++
			p.stats.RejectedByCause[r.RejectionCause]++
		}
	}
	p.mu.Unlock()

	util.Tracet(4, "processEpoch: n=%d elapsed_ms=%d\n", len(obs), util.TickGet()-start)

	select {
	case p.records <- recs:
	default:
		p.logger.Warn("records channel full, dropping epoch")
	}
}
