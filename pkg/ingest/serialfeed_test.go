package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestParseSerialPathDefaults(t *testing.T) {
	device, mode, err := parseSerialPath("/dev/ttyUSB0")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", device)
	assert.Equal(t, defaultBaudRate, mode.BaudRate)
	assert.Equal(t, defaultDataBits, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
}

func TestParseSerialPathOverridesBaudRate(t *testing.T) {
	device, mode, err := parseSerialPath("/dev/ttyUSB0:38400")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", device)
	assert.Equal(t, 38400, mode.BaudRate)
}

func TestParseSerialPathFullySpecified(t *testing.T) {
	device, mode, err := parseSerialPath("/dev/ttyUSB0:115200:7:E:2")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", device)
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 7, mode.DataBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
}

func TestParseSerialPathOddParity(t *testing.T) {
	_, mode, err := parseSerialPath("/dev/ttyUSB0:::O")
	require.NoError(t, err)
	assert.Equal(t, serial.OddParity, mode.Parity)
}

func TestParseSerialPathRejectsEmptyDevice(t *testing.T) {
	_, _, err := parseSerialPath("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty device path")
}

func TestParseSerialPathRejectsBadBaudRate(t *testing.T) {
	_, _, err := parseSerialPath("/dev/ttyUSB0:not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baud rate")
}
