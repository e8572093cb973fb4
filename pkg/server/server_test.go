package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bramburn/gnss-preproc/pkg/preproc"
)

// MockDataSource is a mock data source for testing
type MockDataSource struct {
	dataChan chan []byte
	running  bool
	data     []byte
}

// NewMockDataSource creates a new mock data source
func NewMockDataSource(data []byte) *MockDataSource {
	return &MockDataSource{
		dataChan: make(chan []byte, 10),
		data:     data,
	}
}

// Start starts the data source
func (ds *MockDataSource) Start() error {
	if ds.running {
		return nil
	}

	// Send the data to the channel
	ds.dataChan <- ds.data

	ds.running = true
	return nil
}

// Stop stops the data source
func (ds *MockDataSource) Stop() error {
	if !ds.running {
		return nil
	}

	// Close the data channel
	close(ds.dataChan)

	ds.running = false
	return nil
}

// Data returns the data channel
func (ds *MockDataSource) Data() <-chan []byte {
	return ds.dataChan
}

// MockCaster is a mock caster for testing
type MockCaster struct {
	server    *httptest.Server
	data      []byte
	dataReady chan struct{}
}

// NewMockCaster creates a new mock caster
func NewMockCaster() *MockCaster {
	return &MockCaster{
		data:      make([]byte, 0),
		dataReady: make(chan struct{}, 1),
	}
}

// Start starts the mock caster
func (c *MockCaster) Start() {
	// Create a handler for the caster
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if it's a POST request to a mountpoint
		if r.Method == http.MethodPost && r.URL.Path != "/" {
			// Read the request body
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Error reading request body", http.StatusInternalServerError)
				return
			}
			r.Body.Close()

			// Store the data
			c.data = body

			// Signal that data is ready
			select {
			case c.dataReady <- struct{}{}:
			default:
			}

			// Return a success response
			w.WriteHeader(http.StatusOK)
			return
		}

		// Return a 404 for any other request
		http.NotFound(w, r)
	})

	// Create a test server
	c.server = httptest.NewServer(handler)
}

// Stop stops the mock caster
func (c *MockCaster) Stop() {
	if c.server != nil {
		c.server.Close()
	}
}

// URL returns the URL of the mock caster
func (c *MockCaster) URL() string {
	return c.server.URL
}

// Data returns the data received by the caster
func (c *MockCaster) Data() []byte {
	return c.data
}

func TestServerStartStop(t *testing.T) {
	// Create a logger
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Create a server
	server := NewServer("localhost", "2101", "admin", "password", "PREPRO", logger)

	// Create a data source carrying one NDJSON-encoded epoch, the shape
	// EpochFeed actually produces (one preproc.Record line per satellite).
	recs := []preproc.Record{
		{Sat: "G01", Sod: 1.0, ValidL1: true},
		{Sat: "G02", Sod: 1.0, ValidL1: false, RejectionCause: preproc.RejMaskAngle},
	}
	var payload []byte
	for _, r := range recs {
		line, err := json.Marshal(r)
		require.NoError(t, err)
		payload = append(payload, line...)
		payload = append(payload, '\n')
	}

	dataSource := NewMockDataSource(payload)

	// Set the data source
	server.SetDataSource(dataSource)

	// Start the server
	err := server.Start()
	assert.NoError(t, err)

	// Stop the server
	err = server.Stop()
	assert.NoError(t, err)
}

// TestServerConnectsToCasterMountpointWithAuth drives the actual HTTP
// request a running preprocd sends: a chunked POST to the configured
// mountpoint, carrying basic auth and the relay's own User-Agent. The
// handler answers as soon as the request arrives, before the (open-ended)
// NDJSON body finishes streaming, so the assertion isn't racing the
// connection's lifetime the way reading the body to EOF would.
func TestServerConnectsToCasterMountpointWithAuth(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	received := make(chan *http.Request, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)

	line, err := json.Marshal(preproc.Record{Sat: "G01", Sod: 1.0, ValidL1: true})
	require.NoError(t, err)
	dataSource := NewMockDataSource(append(line, '\n'))

	srv := NewServer(u.Hostname(), u.Port(), "admin", "password", "PREPRO", logger)
	srv.SetDataSource(dataSource)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	select {
	case r := <-received:
		assert.Equal(t, "/PREPRO", r.URL.Path)
		assert.Equal(t, UserAgentValue, r.Header.Get(UserAgentHeaderKey))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "password", pass)
	case <-time.After(2 * time.Second):
		t.Fatal("relay never reached the caster")
	}
}

func TestServerNoDataSource(t *testing.T) {
	// Create a logger
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Create a server
	server := NewServer("localhost", "2101", "admin", "password", "TEST", logger)

	// Try to start the server without a data source
	err := server.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no data source")
}
