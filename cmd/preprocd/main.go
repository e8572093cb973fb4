// Command preprocd reads a raw GNSS observation stream, runs it through the
// per-epoch preprocessing engine, and republishes the resulting records
// over NTRIP, mirroring cmd/rtk2go-test's flag-based CLI shape.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnss-preproc/pkg/caster"
	"github.com/bramburn/gnss-preproc/pkg/config"
	"github.com/bramburn/gnss-preproc/pkg/gnssgo/util"
	"github.com/bramburn/gnss-preproc/pkg/ingest"
	"github.com/bramburn/gnss-preproc/pkg/ntrip"
	"github.com/bramburn/gnss-preproc/pkg/preproc"
	"github.com/bramburn/gnss-preproc/pkg/server"
)

// ANSI color codes for terminal output, carried over from
// cmd/rtk2go-test's status reporting.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func main() {
	input := flag.String("input", "-", "observation source: a file path, a serial path (device[:baud[:databits[:parity[:stopbits]]]]), or - for stdin")
	ntripServer := flag.String("ntrip-server", "", "upstream NTRIP caster host (empty disables relay)")
	ntripPort := flag.String("ntrip-port", "2101", "upstream NTRIP caster port")
	ntripUser := flag.String("ntrip-user", "", "upstream NTRIP username")
	ntripPassword := flag.String("ntrip-password", "", "upstream NTRIP password")
	ntripMountpoint := flag.String("ntrip-mountpoint", "PREPRO", "upstream NTRIP mountpoint")
	casterAddr := flag.String("caster-addr", "", "host a local NTRIP caster at this address (e.g. :2101) so positioning/integrity/plotting subscribers can pull preprocessed epochs; when set, -ntrip-server defaults to this caster unless given explicitly")
	verbose := flag.Bool("verbose", false, "enable debug-level trace logging")
	colorOutput := flag.Bool("color", true, "enable colored status output")

	loader := config.NewLoader(flag.CommandLine)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	util.SetTraceLogger(logger)

	conf := loader.Conf()
	rcvr := loader.Rcvr()
	if err := config.Validate(conf); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	engine, err := preproc.NewEngine(conf, rcvr)
	if err != nil {
		logger.Fatalf("failed to build preprocessing engine: %v", err)
	}

	source, closeSource, err := openSource(*input)
	if err != nil {
		logger.Fatalf("failed to open observation source %q: %v", *input, err)
	}
	defer closeSource()

	reader := ingest.NewLineReader(source)
	processor := ntrip.NewEpochProcessor(engine, reader, logger)

	var localCaster *caster.Caster
	if *casterAddr != "" {
		localCaster = newLocalCaster(*casterAddr, *ntripMountpoint, logger)
		go func() {
			if err := localCaster.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("local caster stopped")
			}
		}()
		logger.Infof("hosting local NTRIP caster on %s, mountpoint %s", *casterAddr, *ntripMountpoint)

		if *ntripServer == "" {
			host, port := splitCasterAddr(*casterAddr)
			*ntripServer = host
			*ntripPort = port
		}
	}

	var ntripSrv *server.Server
	if *ntripServer != "" {
		feed := server.NewEpochFeed(processor, logger)
		ntripSrv = server.NewServer(*ntripServer, *ntripPort, *ntripUser, *ntripPassword, *ntripMountpoint, logger)
		ntripSrv.SetDataSource(feed)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Infof("reading observations from %s", *input)
	if err := processor.Start(); err != nil {
		logger.Fatalf("failed to start epoch processor: %v", err)
	}

	if ntripSrv != nil {
		if err := ntripSrv.Start(); err != nil {
			logger.Fatalf("failed to start NTRIP relay: %v", err)
		}
		logger.Infof("relaying to %s:%s/%s", *ntripServer, *ntripPort, *ntripMountpoint)
	}

	go reportStatus(processor, *colorOutput)

	<-sigChan
	logger.Info("shutdown signal received")

	if ntripSrv != nil {
		ntripSrv.Stop()
	}
	processor.Stop()

	if localCaster != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := localCaster.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("local caster shutdown error")
		}
		cancel()
	}

	stats := processor.Stats()
	logger.Infof("processed %d epochs, accepted %d, rejected %d", stats.EpochsProcessed, stats.Accepted, stats.Rejected)
}

// openSource resolves input to a readable stream: "-" for stdin, an
// existing file path, or a serial "device:..." path otherwise.
func openSource(input string) (io.Reader, func(), error) {
	if input == "-" {
		return os.Stdin, func() {}, nil
	}

	if f, statErr := os.Stat(input); statErr == nil && !f.IsDir() {
		file, err := os.Open(input)
		if err != nil {
			return nil, func() {}, err
		}
		return file, func() { file.Close() }, nil
	}

	port, err := ingest.OpenSerialPort(input)
	if err != nil {
		return nil, func() {}, err
	}
	return port, func() { port.Close() }, nil
}

// newLocalCaster builds an in-memory NTRIP caster advertising a single
// NDJSON mountpoint for the preprocessed epoch stream. An upstream
// server.Server POSTs into it exactly as it would an external caster (see
// splitCasterAddr), so positioning/integrity/plotting subscribers (spec.md
// §1) can pull the feed over plain HTTP.
func newLocalCaster(addr, mountpoint string, logger logrus.FieldLogger) *caster.Caster {
	svc := caster.NewInMemorySourceService()
	host, portStr := splitCasterAddr(addr)
	port, _ := strconv.Atoi(portStr)

	svc.Sourcetable = caster.Sourcetable{
		Casters: []caster.CasterEntry{
			{
				Host:       host,
				Port:       port,
				Identifier: "preprocd",
				Operator:   "preprocd",
				Country:    "N/A",
			},
		},
		Mounts: []caster.StreamEntry{
			{
				Name:          mountpoint,
				Identifier:    mountpoint,
				Format:        "application/x-ndjson",
				FormatDetails: "preproc.Record per line",
				NavSystem:     "GPS+GAL",
				Generator:     "preprocd",
				Solution:      true,
			},
		},
	}

	return caster.NewCaster(addr, svc, logger.WithField("component", "caster"))
}

// splitCasterAddr turns a listen address like ":2101" or "0.0.0.0:2101"
// into a host a client can actually dial and its port, defaulting the host
// to localhost the way net.Listen's own bare-port addresses are reached.
func splitCasterAddr(addr string) (host, port string) {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "localhost", addr
	}
	if h == "" {
		h = "localhost"
	}
	return h, p
}

func reportStatus(p *ntrip.EpochProcessor, color bool) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := p.Stats()
		label := fmt.Sprintf("epochs=%d accepted=%d rejected=%d", stats.EpochsProcessed, stats.Accepted, stats.Rejected)
		if !color {
			fmt.Println(label)
			continue
		}
		c := colorGreen
		if stats.Rejected > stats.Accepted {
			c = colorRed
		} else if stats.Rejected > 0 {
			c = colorYellow
		}
		fmt.Println(c + label + colorReset)
	}
}
