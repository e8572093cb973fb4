package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Default serial port settings, carried over from the teacher's
// OpenSerial defaults.
const (
	defaultBaudRate = 9600
	defaultDataBits = 8
	defaultTimeout  = 100 * time.Millisecond
)

// SerialPort wraps go.bug.st/serial with the teacher's
// "port[:brate[:bsize[:parity[:stopb]]]]" path grammar (spec.md names no
// transport of its own; a serial-attached receiver is the concrete
// external collaborator producing the line-based observation stream
// LineReader consumes). Grounded on
// _examples/bramburn-gnssgo/pkg/gnssgo/stream/serial.go's OpenSerial,
// adapted to drop the removed gnssgo.Stream/TCP-relay scaffolding this
// module never carried over.
type SerialPort struct {
	port serial.Port
	mu   sync.Mutex
}

// OpenSerialPort parses path and opens the port. path format:
// "device[:baud[:databits[:parity[:stopbits]]]]", e.g. "/dev/ttyUSB0:38400".
func OpenSerialPort(path string) (*SerialPort, error) {
	device, mode, err := parseSerialPath(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening serial port %q: %w", device, err)
	}
	if err := p.SetReadTimeout(defaultTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("ingest: setting read timeout on %q: %w", device, err)
	}

	return &SerialPort{port: p}, nil
}

func parseSerialPath(path string) (string, *serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: defaultBaudRate,
		DataBits: defaultDataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	parts := strings.Split(path, ":")
	device := parts[0]
	if device == "" {
		return "", nil, fmt.Errorf("empty device path")
	}

	if len(parts) > 1 && parts[1] != "" {
		brate, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", nil, fmt.Errorf("baud rate %q: %w", parts[1], err)
		}
		mode.BaudRate = brate
	}
	if len(parts) > 2 && parts[2] != "" {
		bsize, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", nil, fmt.Errorf("data bits %q: %w", parts[2], err)
		}
		mode.DataBits = bsize
	}
	if len(parts) > 3 && parts[3] != "" {
		switch parts[3] {
		case "E", "e":
			mode.Parity = serial.EvenParity
		case "O", "o":
			mode.Parity = serial.OddParity
		default:
			mode.Parity = serial.NoParity
		}
	}
	if len(parts) > 4 && parts[4] != "" {
		switch parts[4] {
		case "2":
			mode.StopBits = serial.TwoStopBits
		default:
			mode.StopBits = serial.OneStopBit
		}
	}

	return device, mode, nil
}

// Read implements io.Reader, so a SerialPort can be handed straight to
// NewLineReader.
func (s *SerialPort) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Read(buf)
}

// Close closes the underlying port.
func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
