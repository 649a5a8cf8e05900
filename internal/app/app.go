// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ilyassman/super-recipe-roulette/internal/auth"
	"github.com/ilyassman/super-recipe-roulette/internal/config"
	"github.com/ilyassman/super-recipe-roulette/internal/database"
	"github.com/ilyassman/super-recipe-roulette/internal/favorite"
	"github.com/ilyassman/super-recipe-roulette/internal/handler"
	"github.com/ilyassman/super-recipe-roulette/internal/imagestore"
	"github.com/ilyassman/super-recipe-roulette/internal/logger"
	"github.com/ilyassman/super-recipe-roulette/internal/metrics"
	"github.com/ilyassman/super-recipe-roulette/internal/middleware"
	"github.com/ilyassman/super-recipe-roulette/internal/recipe"
	"github.com/ilyassman/super-recipe-roulette/internal/repository"
	"github.com/ilyassman/super-recipe-roulette/internal/security"
	"github.com/ilyassman/super-recipe-roulette/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// rateLimiterConfig はreq/min単位の設定値からレートリミッター設定を組み立てる。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rlCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rlCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitLogin > 0 {
		rlCfg.LoginRate = rate.Limit(float64(cfg.RateLimitLogin) / 60.0)
		rlCfg.LoginBurst = cfg.RateLimitLogin
	}
	return rlCfg
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	recipeRepo := repository.NewPostgresRecipeRepo(db)
	ingredientRepo := repository.NewPostgresIngredientRepo(db)
	favoriteRepo := repository.NewPostgresFavoriteRepo(db)

	// 4. セキュリティ・画像ストアの初期化
	sanitizer := security.NewTextSanitizer()
	images := imagestore.New(cfg.ImageDir, collector, slog.Default())

	// 5. ドメインサービスの初期化
	authService := auth.NewService(userRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge})
	recipeService := recipe.NewService(recipeRepo, images, sanitizer, collector, slog.Default())
	favoriteService := favorite.NewService(favoriteRepo, recipeRepo)

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
			CookieMaxAge: cfg.SessionMaxAge,
		},
		MetricsCollector: collector,
		MetricsHandler:   metrics.Handler(registry),
		Logger:           slog.Default(),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		RecipeService:     recipeService,
		SearchService:     recipeService,
		AdminService:      recipeService,
		FavoriteService:   favoriteService,
		IngredientService: ingredientRepo,

		ImageDir: images.Dir(),
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、期限切れセッションのクリーンアップジョブを定期実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. メトリクスとクリーンアップジョブの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	cleanupJob := cleanup.NewCleanupJob(db, collector, slog.Default())

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("cleanup_interval", cfg.SessionCleanupInterval),
	)

	// 起動直後に1回実行
	if err := cleanupJob.Run(ctx); err != nil {
		slog.Error("cleanup job failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(cfg.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped gracefully")
			return nil
		case <-ticker.C:
			if err := cleanupJob.Run(ctx); err != nil {
				slog.Error("cleanup job failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
