// main.go is the entry point for the distinct server. It wires together the
// sketch store, the network server, and the metrics listener, and manages the
// operational lifecycle.
//
// Seeding Policy
// ==============
//
// All hash seeds are generated once at startup and shared by every sketch the
// server creates. Two sketches created with the same parameters (counter
// budget and register count) therefore carry identical configs and can be
// merged with DH.MERGE. The trade-off is that seeds do not survive a restart,
// so sketches cannot be merged across server generations; the store is
// in-memory only, which makes that a non-issue.
//
// Observability
// =============
//
// Request handling is instrumented with Prometheus counters, exposed on a
// separate HTTP listener so that scraping never competes with client traffic
// on the data port. Structured logs go to stderr via zap.
package main

import (
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/probkit/distinct/internal/hashx"
)

type config struct {
	port            int
	metricsAddr     string
	maxConnections  int
	shutdownTimeout time.Duration
	idleTimeout     time.Duration
	maxCounters     int
	numRegisters    int
}

type application struct {
	config      config
	logger      *zap.Logger
	listener    net.Listener
	store       *Store
	router      *Router
	metrics     *Metrics
	samplerSeed []uint64
	counterSeed []uint64
	readyCh     chan struct{}
	wg          sync.WaitGroup
	connLimiter chan struct{}
}

func main() {
	var cfg config

	flag.IntVar(&cfg.port, "port", 6483, "TCP server port")
	flag.StringVar(&cfg.metricsAddr, "metrics-addr", ":9483", "Prometheus metrics listen address (empty to disable)")
	flag.IntVar(&cfg.maxConnections, "max-conn", 100, "Maximum concurrent connections")
	flag.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.DurationVar(&cfg.idleTimeout, "idle-timeout", 0, "Idle client connection timeout (0 for no timeout)")
	flag.IntVar(&cfg.maxCounters, "max-counters", 128, "Default label budget for new sketches")
	flag.IntVar(&cfg.numRegisters, "registers", 2048, "Default per-label HLL register count (power of two)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       NewStore(),
		metrics:     NewMetrics(),
		samplerSeed: hashx.RandomSeeds(4),
		counterSeed: hashx.RandomSeeds(2),
		connLimiter: make(chan struct{}, cfg.maxConnections),
	}

	app.router = app.commands()

	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.metrics.registry, promhttp.HandlerOpts{}))
		go func() {
			logger.Info("metrics listener starting", zap.String("address", cfg.metricsAddr))
			if err := http.ListenAndServe(cfg.metricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	if err := app.serve(); err != nil {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}
