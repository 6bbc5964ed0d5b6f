package insert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	series   prometheus.Counter
	samples  prometheus.Counter
	bytes    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pbreader_insert_requests_total",
			Help: "Remote write requests by response status.",
		}, []string{"status"}),
		series: f.NewCounter(prometheus.CounterOpts{
			Name: "pbreader_insert_series_total",
			Help: "Series accepted from remote write requests.",
		}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Name: "pbreader_insert_samples_total",
			Help: "Samples accepted from remote write requests.",
		}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Name: "pbreader_insert_bytes_total",
			Help: "Decompressed remote write payload bytes.",
		}),
	}
}
