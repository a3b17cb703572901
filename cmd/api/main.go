package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter-platform/internal/auth"
	"callcenter-platform/internal/calls"
	"callcenter-platform/internal/classifications"
	"callcenter-platform/internal/classifier"
	"callcenter-platform/internal/config"
	"callcenter-platform/internal/httpapi"
	"callcenter-platform/internal/metrics"
	"callcenter-platform/internal/reporting"
	"callcenter-platform/internal/users"
	"callcenter-platform/pkg/logger"
	"callcenter-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	var (
		db  *sql.DB
		rdb *redis.Client
	)
	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		var err error
		db, err = utils.OpenPostgres(gctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		return err
	})
	g.Go(func() error {
		var err error
		rdb, err = utils.OpenRedis(gctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("storage init failed", "err", err)
		if db != nil {
			_ = db.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		os.Exit(1)
	}
	defer db.Close()
	defer rdb.Close()

	app := wire(cfg, authManager, db, rdb)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(httpapi.CORS(cfg.HTTP.CORSOrigins))
	registerRoutes(r, app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Classification requests wait on the model.
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// deps holds everything the route table needs.
type deps struct {
	auth  *auth.Manager
	ready readiness

	users           *users.Service
	usersHandler    *users.Handler
	callsHandler    *calls.Handler
	classifications *classifications.Handler
	metrics         *metrics.Handler
	reports         *reporting.Handler
}

func wire(cfg config.Config, m *auth.Manager, db *sql.DB, rdb *redis.Client) deps {
	limiter := auth.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
	usersSvc := users.NewService(users.NewPostgresRepo(db), m, limiter)
	callsSvc := calls.NewService(calls.NewPostgresRepo(db), usersSvc)

	opts := []classifier.Option{classifier.WithTimeout(cfg.LLM.Timeout)}
	if cfg.LLM.MaxConcurrent > 0 {
		// Slots outlive a crashed replica by at most two model deadlines.
		opts = append(opts, classifier.WithGate(classifier.NewRedisGate(rdb, cfg.LLM.MaxConcurrent, 2*cfg.LLM.Timeout)))
	}
	llm := classifier.New(classifier.NewOpenAICompleter(cfg.LLM), opts...)

	return deps{
		auth:            m,
		ready:           storeChecks{db: db, rdb: rdb},
		users:           usersSvc,
		usersHandler:    users.NewHandler(usersSvc),
		callsHandler:    calls.NewHandler(callsSvc),
		classifications: classifications.NewHandler(classifications.NewService(classifications.NewPostgresRepo(db), callsSvc, llm)),
		metrics:         metrics.NewHandler(metrics.NewService(metrics.NewPostgresRepo(db))),
		reports:         reporting.NewHandler(reporting.NewService(reporting.NewPostgresRepo(db), usersSvc)),
	}
}
