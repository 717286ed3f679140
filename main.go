package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"XRay/internal/calc/analysis"
	"XRay/internal/calc/batch"
	"XRay/internal/calc/diffraction"
	"XRay/internal/calc/importer"
	"XRay/internal/config"
	"XRay/internal/logger"
	"XRay/internal/middleware"
	"XRay/internal/repo"
	"XRay/internal/worker"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	anodes  repo.Repository
	pool    *worker.Pool
	limiter *middleware.IPRateLimiter
}

func HandleList(router *mux.Router, d deps) {
	limits := diffraction.Limits{MaxSamples: d.cfg.MaxSamples}
	analysisH := &analysis.Handler{Limits: limits, Anodes: d.anodes, Pool: d.pool, Logger: d.log}
	runner := &batch.Runner{Limits: limits, Anodes: d.anodes, Pool: d.pool, Logger: d.log}
	batchH := &batch.Handler{Runner: runner, Logger: d.log}
	importH := &importer.Handler{Runner: runner, Logger: d.log}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")

	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api := router.PathPrefix("/api/analysis").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.Use(d.limiter.LimitMiddleware)
	api.Use(middleware.Timeout(d.cfg.RequestTimeout))

	api.HandleFunc("/analyze", analysisH.Analyze).Methods("POST")
	api.HandleFunc("/batch", batchH.Calc).Methods("POST")
	api.HandleFunc("/import", importH.Calc).Methods("POST")
	api.HandleFunc("/anodes", analysisH.ListAnodes).Methods("GET")
	api.HandleFunc("/anodes/{symbol}", analysisH.GetAnode).Methods("GET")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed on "+r.URL.Path, "")
}

// openAnodes uses Postgres when a DSN is configured, the built-in table
// otherwise.
func openAnodes(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using built-in anode catalogue")
		return repo.NewMemoryRepository(repo.DefaultAnodes), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repo.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgresRepository(db)
	if err := pg.Migrate(ctx, repo.DefaultAnodes); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Info("using postgres anode catalogue")
	return pg, func() { db.Close() }, nil
}

var wg sync.WaitGroup

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot, _ := logger.New("info")
		boot.Fatal("Failed to read config", zap.Error(err))
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		boot, _ := logger.New("info")
		boot.Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	anodes, closeAnodes, err := openAnodes(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open anode catalogue", zap.Error(err))
	}
	defer closeAnodes()

	pool := worker.New(cfg.Workers, log)
	defer pool.Close()

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := limiter.Prune(10 * time.Minute); n > 0 {
					log.Debug("pruned idle rate limiters", zap.Int("count", n))
				}
			}
		}
	}()

	router := mux.NewRouter()
	HandleList(router, deps{cfg: cfg, log: log, anodes: anodes, pool: pool, limiter: limiter})
	handler := middleware.Logging(log)(middleware.CORS(cfg.AllowedOrigins)(router))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting server",
			zap.String("addr", cfg.Addr),
			zap.Int("workers", cfg.Workers),
			zap.Int("max_samples", cfg.MaxSamples))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	wg.Wait()
	log.Info("Server stopped")
}
