package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"franchiseops/internal/auth"
	"franchiseops/internal/checklist"
	"franchiseops/internal/config"
	"franchiseops/internal/db"
	"franchiseops/internal/franchise"
	"franchiseops/internal/inspection"
	"franchiseops/internal/jobs"
	"franchiseops/internal/llm"
	"franchiseops/internal/logging"
	"franchiseops/internal/menu"
	"franchiseops/internal/observability"
	"franchiseops/internal/report"
	"franchiseops/internal/router"
	"franchiseops/internal/storage"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		// logger may not exist yet
		_, _ = os.Stderr.WriteString("franchiseops: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// ───────────────────────── CONFIG ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, syncLog, err := logging.New(cfg.LogLevel, cfg.Env, "api")
	if err != nil {
		return err
	}
	defer syncLog()

	flush, err := observability.Init(observability.Options{
		DSN:     cfg.SentryDSN,
		Env:     cfg.Env,
		Release: version,
		Service: "api",
	})
	if err != nil {
		log.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := checklist.Default()
	if err := catalog.Validate(); err != nil {
		return err
	}

	// ───────────────────────── DB ─────────────────────────
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to postgres")

	// ───────────────────────── STORAGE ─────────────────────────
	blobs, uploadDir, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	// ───────────────────────── SERVICES ─────────────────────────
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(auth.NewPostgresUserRepository(pool), tokens, log.Named("auth"))
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	franchiseService := franchise.NewService(franchise.NewPostgresRepository(pool))

	inspectionService := inspection.NewService(
		inspection.NewPostgresRepository(pool),
		catalog,
		franchiseService,
		blobs,
		log.Named("inspection"),
	)

	analyzer := llm.NewAnalyzer(
		llm.NewGeminiClient(cfg.GoogleAPIKey, cfg.GeminiBaseURL),
		log.Named("llm"),
	)
	if !analyzer.Configured() {
		log.Warn("GOOGLE_API_KEY not set, menu analysis runs in demo mode")
	}

	menuService := menu.NewService(menu.NewPostgresRepository(pool), blobs, analyzer, log.Named("menu"))

	// ───────────────────────── JOBS ─────────────────────────
	runner := jobs.New(ctx, log.Named("jobs"))
	runner.Every(cfg.DedupeInterval, "inspection_dedupe", jobs.Dedupe(inspectionService, log.Named("dedupe")))

	// ───────────────────────── HTTP ─────────────────────────
	engine := router.New(router.Deps{
		Log:         log.Named("http"),
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,

		Auth:        auth.NewHandler(authService),
		Franchises:  franchise.NewHandler(franchiseService),
		Inspections: inspection.NewHandler(inspectionService),
		Menu:        menu.NewHandler(menuService),
		Reports:     report.NewHandler(inspectionService, menuService, franchiseService, catalog, log.Named("report")),

		UploadDir:  uploadDir,
		UploadPath: cfg.UploadPublicBase,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newBlobStore prefers S3 when configured. The returned directory is only
// set for the filesystem store and is served over HTTP.
func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, string, error) {
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		return s3, "", err
	}

	fs, err := storage.NewFSStore(cfg.UploadDir, cfg.UploadPublicBase)
	if err != nil {
		return nil, "", err
	}
	return fs, fs.Dir(), nil
}
