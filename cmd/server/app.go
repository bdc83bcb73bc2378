package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/govledger/internal/auth"
	"github.com/mmynk/govledger/internal/config"
	"github.com/mmynk/govledger/internal/governance"
	"github.com/mmynk/govledger/internal/metrics"
	"github.com/mmynk/govledger/internal/middleware"
	"github.com/mmynk/govledger/internal/registry"
	"github.com/mmynk/govledger/internal/service"
	"github.com/mmynk/govledger/internal/storage"
	"github.com/mmynk/govledger/internal/storage/bolt"
	"github.com/mmynk/govledger/internal/storage/cache"
	"github.com/mmynk/govledger/internal/storage/memory"
	"github.com/mmynk/govledger/internal/storage/sqlite"
	"github.com/mmynk/govledger/pkg/api"
	"github.com/mmynk/govledger/pkg/logging"
)

func run(ctx context.Context, configPath, envFile, logLevel string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := newHandler(cfg, store, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		// h2c gives HTTP/2 without TLS, which Connect clients expect.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore opens the configured backend.
func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return s, nil
	case config.BackendBolt:
		s, err := bolt.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bolt storage: %w", err)
		}
		return s, nil
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newEngine builds the lifecycle engine over store, optionally behind the
// proposal cache.
func newEngine(cfg *config.Config, store storage.Store, m *metrics.Metrics) (*governance.Engine, error) {
	var proposals storage.ProposalStore = store
	if cfg.Storage.CacheSize > 0 {
		c, err := cache.New(store, cfg.Storage.CacheSize)
		if err != nil {
			return nil, err
		}
		proposals = c
	}

	opts := []governance.Option{governance.WithMetrics(m)}
	if cfg.Governance.IDPolicy == config.IDPolicySequence {
		opts = append(opts, governance.WithSequence(store))
	}
	return governance.New(proposals, opts...), nil
}

// newHandler wires services, interceptors and the metrics endpoint.
func newHandler(cfg *config.Config, store storage.Store, reg *prometheus.Registry) (http.Handler, error) {
	m := metrics.New(reg)

	engine, err := newEngine(cfg, store, m)
	if err != nil {
		return nil, err
	}
	slog.Info("Governance engine ready", "id_policy", engine.Policy())

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	logged := connect.WithInterceptors(middleware.LoggingInterceptor(m), middleware.OptionalAuth(jwtManager))
	protected := connect.WithInterceptors(middleware.LoggingInterceptor(m), middleware.RequireAuthFor(jwtManager,
		api.ProposalServiceCreateProposalProcedure,
		api.ProposalServiceEditProposalProcedure,
		api.ProposalServiceEndProposalProcedure,
		api.ProposalServiceVoteProcedure,
	))

	mux := http.NewServeMux()

	path, h := api.NewProposalServiceHandler(service.NewProposalService(engine), protected)
	mux.Handle(path, h)

	path, h = api.NewUserServiceHandler(service.NewUserService(registry.New()), logged)
	mux.Handle(path, h)

	path, h = api.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, slog.Default()), logged)
	mux.Handle(path, h)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return corsMiddleware(mux), nil
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
