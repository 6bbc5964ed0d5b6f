package insert

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/pluto-metrics/pbreader/pkg/config"
	"github.com/pluto-metrics/pbreader/pkg/errs"
	"github.com/pluto-metrics/pbreader/pkg/insert/id"
	"github.com/pluto-metrics/pbreader/pkg/rawpb"
	"github.com/pluto-metrics/pbreader/pkg/scope"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Sink receives every accepted series. ts is only valid during the call.
type Sink func(ctx context.Context, seriesID string, ts *Timeseries) error

type Opts struct {
	Config     *config.Config
	Registerer prometheus.Registerer
	Sink       Sink
}

type PrometheusRemoteWrite struct {
	opts    Opts
	metrics *metrics
}

func NewPrometheusRemoteWrite(opts Opts) *PrometheusRemoteWrite {
	return &PrometheusRemoteWrite{
		opts:    opts,
		metrics: newMetrics(opts.Registerer),
	}
}

type requestStats struct {
	series   int
	samples  int
	filtered int
}

func (rcv *PrometheusRemoteWrite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := scope.With(r.Context(), zap.String("remote_addr", r.RemoteAddr))
	ctx = scope.RequestBegin(ctx)

	if rcv.opts.Config.Insert.CloseConnections {
		w.Header().Add("Connection", "close")
	}

	status := http.StatusNoContent
	err := rcv.serve(ctx, w, r)
	if err != nil {
		status = errs.Code(err, http.StatusInternalServerError)
	}

	rcv.metrics.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	scope.RequestWith(ctx, zap.Int("status", status))
	scope.RequestFinish(ctx, err)

	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(status)
}

func (rcv *PrometheusRemoteWrite) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cfg := rcv.opts.Config

	body := http.MaxBytesReader(w, r.Body, cfg.Insert.MaxBodySize)
	reqCompressed, err := io.ReadAll(body)
	if err != nil {
		return errs.NewErrorfWithCode(http.StatusBadRequest, "can't read prometheus request: %s", err)
	}

	reqRaw, err := snappy.Decode(nil, reqCompressed)
	if err != nil {
		return errs.NewErrorfWithCode(http.StatusBadRequest, "can't decode prometheus request: %s", err)
	}
	rcv.metrics.bytes.Add(float64(len(reqRaw)))
	scope.RequestWith(ctx, zap.Int("bytes", len(reqRaw)))

	insertCfg, err := cfg.GetInsert(config.NewEnvInsert().WithRequest(r))
	if err != nil {
		return errors.Wrap(err, "can't get insert config")
	}

	h, err := id.New(insertCfg.IDFunc)
	if err != nil {
		return err
	}

	var stats requestStats
	var visitErr error
	src := rawpb.NewBufferReader(rawpb.Bytes(reqRaw), cfg.Reader.FastText)

	err = DecodeWriteRequest(src, func(ts *Timeseries) error {
		ok, err := rcv.accept(ts)
		if err == nil && ok {
			h.Update(ts.Labels)
			if rcv.opts.Sink != nil {
				err = rcv.opts.Sink(ctx, h.ID(), ts)
			}
		}
		if err != nil {
			visitErr = err
			return err
		}
		if !ok {
			stats.filtered++
			return nil
		}
		stats.series++
		stats.samples += len(ts.Samples)
		return nil
	})

	scope.RequestWith(ctx,
		zap.Int("series", stats.series),
		zap.Int("samples", stats.samples),
		zap.Int("filtered", stats.filtered),
	)

	switch {
	case visitErr != nil:
		return err
	case err != nil:
		return errs.NewErrorfWithCode(http.StatusBadRequest, "can't parse prometheus request: %s", err)
	}

	rcv.metrics.series.Add(float64(stats.series))
	rcv.metrics.samples.Add(float64(stats.samples))

	return nil
}

// accept applies the metric name and expression filters to ts.
func (rcv *PrometheusRemoteWrite) accept(ts *Timeseries) (bool, error) {
	cfg := rcv.opts.Config

	if len(ts.Samples) == 0 {
		return false, nil
	}

	name := ts.Name()
	if cfg.Insert.MetricNameRe != nil && !cfg.Insert.MetricNameRe.MatchString(name) {
		return false, nil
	}

	if cfg.Insert.Pass() {
		return true, nil
	}

	env := &config.EnvSeries{
		Name:    name,
		Labels:  make(map[string]string, len(ts.Labels)),
		Samples: len(ts.Samples),
	}
	for i := 0; i < len(ts.Labels); i++ {
		env.Labels[ts.Labels[i].Name] = ts.Labels[i].Value
	}
	return cfg.Insert.When(env)
}
