package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ilyassman/super-recipe-roulette/internal/middleware"
)

// HealthChecker はヘルスチェックでのDB疎通確認に必要なインターフェース。
// *sql.DB がそのまま適合する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsCollector  middleware.StatusRecorder
	MetricsHandler    http.Handler
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// レシピ閲覧・検索
	RecipeService RecipeServiceInterface
	SearchService SearchServiceInterface

	// レシピ管理
	AdminService AdminRecipeServiceInterface

	// お気に入り
	FavoriteService FavoriteServiceInterface

	// 食材マスタ
	IngredientService IngredientServiceInterface

	// 画像配信ディレクトリ
	ImageDir string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// グローバルミドルウェアの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → CSRF
//
// 閲覧系（検索・レシピ詳細・食材マスタ）は認証不要。
// お気に入りはセッション認証、/admin/* は管理者ロールを要求する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.MetricsCollector))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	recipeHandler := NewRecipeHandler(deps.RecipeService)
	searchHandler := NewSearchHandler(deps.SearchService)
	adminHandler := NewAdminHandler(deps.AdminService)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService)
	ingredientHandler := NewIngredientHandler(deps.IngredientService)

	// --- 認証不要のルート ---

	// ヘルスチェック（DB疎通確認込み）
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if deps.HealthChecker != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
			defer cancel()

			if err := deps.HealthChecker.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証ルート（ログインは専用レート制限を適用）
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 検索・レシピ閲覧・食材マスタ
	r.Get("/api/recherche", searchHandler.Search)
	r.Get("/api/ingredients", ingredientHandler.List)
	r.Route("/api/recettes/{id}", func(r chi.Router) {
		r.Get("/", recipeHandler.GetRecipe)
		r.Get("/details", recipeHandler.GetRecipeDetail)
	})

	// レシピ画像の静的配信
	if deps.ImageDir != "" {
		fs := http.FileServer(http.Dir(deps.ImageDir))
		r.Handle("/assets/img/uploads/*", http.StripPrefix("/assets/img/uploads/", fs))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// お気に入り管理
		r.Post("/api/recettes/{id}/favori", favoriteHandler.Toggle)
		r.Get("/api/favoris", favoriteHandler.List)
	})

	// --- 管理者ロールが必要なルート ---
	// ミドルウェアスタック: Admin(Session検証込み) → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAdminMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/admin/recettes", func(r chi.Router) {
			r.Get("/", adminHandler.ListRecipes)
			r.Post("/", adminHandler.CreateRecipe)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", adminHandler.GetRecipe)
				r.Post("/", adminHandler.EditRecipe)
				r.Delete("/", adminHandler.DeleteRecipe)
			})
		})
	})

	return r
}
