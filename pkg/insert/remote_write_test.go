package insert

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/pluto-metrics/pbreader/pkg/config"
	"github.com/pluto-metrics/pbreader/pkg/scope"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T, body string) *config.Config {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(body), 0600))
	cfg, err := config.LoadFromFile(filename, true)
	require.NoError(t, err)
	return cfg
}

type receiver struct {
	rw  *PrometheusRemoteWrite
	ids []string
}

func newReceiver(t *testing.T, cfg *config.Config) *receiver {
	r := &receiver{}
	r.rw = NewPrometheusRemoteWrite(Opts{
		Config:     cfg,
		Registerer: prometheus.NewRegistry(),
		Sink: func(ctx context.Context, seriesID string, ts *Timeseries) error {
			r.ids = append(r.ids, seriesID)
			return nil
		},
	})
	return r
}

func (r *receiver) post(t *testing.T, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/write", bytes.NewReader(body))
	req = req.WithContext(scope.WithLogger(req.Context(), zaptest.NewLogger(t)))
	w := httptest.NewRecorder()
	r.rw.ServeHTTP(w, req)
	return w
}

func TestRemoteWrite(t *testing.T) {
	assert := assert.New(t)

	r := newReceiver(t, testConfig(t, "reader:\n  fast_text: true\n"))
	raw := marshalFixture(t, 10)

	w := r.post(t, snappy.Encode(nil, raw))
	assert.Equal(http.StatusNoContent, w.Code)
	assert.Empty(w.Header().Get("Connection"))

	// 10 series with 1, 2 or 3 samples each
	assert.Len(r.ids, 10)
	assert.True(strings.HasPrefix(r.ids[0], "go_goroutines?"))
	assert.Equal(10.0, testutil.ToFloat64(r.rw.metrics.series))
	assert.Equal(19.0, testutil.ToFloat64(r.rw.metrics.samples))
	assert.Equal(float64(len(raw)), testutil.ToFloat64(r.rw.metrics.bytes))
	assert.Equal(1.0, testutil.ToFloat64(r.rw.metrics.requests.WithLabelValues("204")))
}

func TestRemoteWriteBadRequest(t *testing.T) {
	raw := marshalFixture(t, 3)

	tests := []struct {
		name   string
		config string
		body   []byte
	}{
		{"not snappy", "reader:\n  fast_text: false\n", []byte("definitely not snappy")},
		{"truncated", "reader:\n  fast_text: false\n", snappy.Encode(nil, raw[:len(raw)-3])},
		{"too large", "insert:\n  max_body_size: 256\n", bytes.Repeat([]byte("x"), 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReceiver(t, testConfig(t, tt.config))
			w := r.post(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(r.rw.metrics.requests.WithLabelValues("400")))
			assert.Equal(t, 0.0, testutil.ToFloat64(r.rw.metrics.series))
		})
	}
}

func TestRemoteWriteFilters(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig(t, `
insert:
  id_func: noop
  metric_name: "^go_"
  when: labels["instance"] != "host-1:9100"
`)
	r := newReceiver(t, cfg)

	w := r.post(t, snappy.Encode(nil, marshalFixture(t, 4)))
	assert.Equal(http.StatusNoContent, w.Code)
	assert.Equal([]string{"noop", "noop", "noop"}, r.ids)

	r = newReceiver(t, testConfig(t, "insert:\n  metric_name: \"^node_\"\n"))
	w = r.post(t, snappy.Encode(nil, marshalFixture(t, 4)))
	assert.Equal(http.StatusNoContent, w.Code)
	assert.Empty(r.ids)
}

func TestRemoteWriteSinkError(t *testing.T) {
	cfg := testConfig(t, "insert:\n  close_connections: true\n")
	rw := NewPrometheusRemoteWrite(Opts{
		Config:     cfg,
		Registerer: prometheus.NewRegistry(),
		Sink: func(ctx context.Context, seriesID string, ts *Timeseries) error {
			return fmt.Errorf("storage is down")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/write", bytes.NewReader(snappy.Encode(nil, marshalFixture(t, 2))))
	w := httptest.NewRecorder()
	rw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "storage is down")
	assert.Equal(t, "close", w.Header().Get("Connection"))
	assert.Equal(t, 0.0, testutil.ToFloat64(rw.metrics.series))
}

func TestRemoteWriteOverride(t *testing.T) {
	cfg := testConfig(t, `
insert:
  override:
    - when: GET["id"] == "noop"
      id_func: noop
`)
	r := newReceiver(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/write?id=noop", bytes.NewReader(snappy.Encode(nil, marshalFixture(t, 1))))
	w := httptest.NewRecorder()
	r.rw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"noop"}, r.ids)
}
