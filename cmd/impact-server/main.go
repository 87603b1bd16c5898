package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/config"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/nbi"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/internal/sim/session"
	"github.com/signalsfoundry/impact-simulator/kb"
)

// pruneInterval bounds how often expired sessions are swept.
var pruneInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "Path to an impact.yaml config file (default ./impact.yaml if present)")
	grpcAddr := flag.String("grpc-addr", "", "TCP address the gRPC server listens on (overrides server.grpc_addr)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (overrides server.metrics_addr)")
	catalogPath := flag.String("catalog", "", "Path to a JSON catalog of extra materials and presets (overrides catalog.path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "impact-server: %v\n", err)
		os.Exit(1)
	}
	if *grpcAddr != "" {
		cfg.Server.GRPCAddr = *grpcAddr
	}
	if *metricsAddr != "" {
		cfg.Server.MetricsAddr = *metricsAddr
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}

	log := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.Server.GRPCAddr), logging.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "impact server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves the ImpactService on lis until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logging.Logger, lis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	rpcMetrics, err := observability.NewRPCCollector(reg)
	if err != nil {
		return fmt.Errorf("rpc metrics: %w", err)
	}
	simMetrics, err := observability.NewSimulationCollector(reg)
	if err != nil {
		return fmt.Errorf("simulation metrics: %w", err)
	}

	catalog, err := loadCatalog(ctx, log, cfg.CatalogPath)
	if err != nil {
		return err
	}
	unsubscribe := catalog.Subscribe(func(ev kb.Event) {
		log.Debug(context.Background(), "catalog changed", logging.String("event", ev.Type.String()))
	})
	defer unsubscribe()

	simulator := core.NewSimulator(cfg.Integrator, log, core.WithRecorder(simMetrics))
	sessions := session.NewStore(log,
		session.WithMetricsRecorder(simMetrics),
		session.WithMaxSessions(cfg.Sessions.MaxSessions),
		session.WithTTL(cfg.Sessions.TTL),
	)

	server := nbi.NewGRPCServer(log, rpcMetrics)
	nbi.RegisterImpactServiceServer(server, nbi.NewImpactService(catalog, simulator, sessions, log))

	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, rpcMetrics, log)

	loopCtx, cancelLoops := context.WithCancel(ctx)
	defer cancelLoops()
	if cfg.Sessions.TTL > 0 {
		go pruneSessions(loopCtx, sessions, pruneInterval)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(lis)
	}()
	log.Info(ctx, "starting impact gRPC server", logging.String("addr", lis.Addr().String()))

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			runErr = fmt.Errorf("grpc server: %w", err)
		}
	}

	log.Info(context.Background(), "shutting down impact server")
	cancelLoops()
	server.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return runErr
}

func serveMetrics(addr string, collector *observability.RPCCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// loadCatalog seeds the built-in materials and presets and then applies
// the optional JSON catalog at path. A missing file is skipped with a
// warning; a malformed one is an error.
func loadCatalog(ctx context.Context, log logging.Logger, path string) (*kb.Catalog, error) {
	catalog := kb.NewCatalog()
	if err := core.SeedCatalog(catalog); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if path == "" {
		return catalog, nil
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn(ctx, "skipping catalog load", logging.String("path", path), logging.Err(err))
		return catalog, nil
	}
	defer f.Close()

	summary, err := core.LoadCatalog(catalog, f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	log.Info(ctx, "loaded catalog",
		logging.String("path", path),
		logging.Int("materials", len(summary.MaterialIDs)),
		logging.Int("presets", len(summary.PresetIDs)),
	)
	return catalog, nil
}

func pruneSessions(ctx context.Context, sessions *session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Prune(ctx)
		}
	}
}
