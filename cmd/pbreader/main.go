package main

import (
	"context"
	"flag"
	"log"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/pluto-metrics/pbreader/pkg/config"
	"github.com/pluto-metrics/pbreader/pkg/insert"
	"github.com/pluto-metrics/pbreader/pkg/listen"
	"github.com/pluto-metrics/pbreader/pkg/scope"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	var configFilename string
	var development bool
	var dumpFilename string
	var dumpSnappy bool
	flag.StringVar(&configFilename, "config", "/etc/pbreader/config.yaml", "Config filename")
	flag.BoolVar(&development, "dev", false, "Use development config by default")
	flag.StringVar(&dumpFilename, "dump", "", "Print series of a remote write payload file and exit")
	flag.BoolVar(&dumpSnappy, "snappy", false, "Dump file is snappy compressed")
	flag.Parse()

	cfg, err := config.LoadFromFile(configFilename, development)
	if err != nil {
		log.Fatal(err)
	}

	// logging
	logger := zap.Must(cfg.Logging.Build())
	defer logger.Sync()
	defer zap.RedirectStdLog(logger)()
	defer zap.ReplaceGlobals(logger)()

	if dumpFilename != "" {
		err = dump(os.Stdout, dumpOpts{
			filename: dumpFilename,
			snappy:   dumpSnappy,
			fastText: cfg.Reader.FastText,
			idFunc:   cfg.Insert.IDFunc,
		})
		if err != nil {
			logger.Fatal("can't dump payload", zap.String("filename", dumpFilename), zap.Error(err))
		}
		return
	}

	httpManager := listen.NewHTTP()
	// receiver
	if cfg.Insert.Enabled {
		mux := httpManager.Mux(cfg.Insert.Listen)
		rw := insert.NewPrometheusRemoteWrite(insert.Opts{
			Config:     cfg,
			Registerer: prometheus.DefaultRegisterer,
			Sink: func(ctx context.Context, seriesID string, ts *insert.Timeseries) error {
				scope.Logger(ctx).Debug("series",
					zap.String("id", seriesID),
					zap.Int("labels", len(ts.Labels)),
					zap.Int("samples", len(ts.Samples)),
				)
				return nil
			},
		})

		mux.Handle("/api/v1/write", rw)
	}

	//debug
	if cfg.Debug.Enabled {
		mux := httpManager.Mux(cfg.Debug.Listen)

		if cfg.Debug.Metrics {
			prometheus.MustRegister(
				collectors.NewBuildInfoCollector(),
			)

			mux.Handle("/metrics", promhttp.HandlerFor(
				prometheus.DefaultGatherer, promhttp.HandlerOpts{
					Registry: prometheus.DefaultRegisterer,
				}))
		}

		if cfg.Debug.Pprof {
			mux.HandleFunc("/debug/pprof/", pprof.Index)
			mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = httpManager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("listen failed", zap.Error(err))
	}
}
