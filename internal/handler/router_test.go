package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ilyassman/super-recipe-roulette/internal/middleware"
	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// routerSessionFinder は関数フィールドで挙動を差し替えるモック。
type routerSessionFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *routerSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

// mockStatusRecorder はHTTPステータスの記録を数えるモック。
type mockStatusRecorder struct {
	statuses []int
}

func (m *mockStatusRecorder) RecordHTTPStatus(code int) {
	m.statuses = append(m.statuses, code)
}

// mockPinger はDB疎通確認のモック。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }

func testRouterDeps(t *testing.T) (*RouterDeps, *routerSessionFinder) {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	finder := &routerSessionFinder{}

	return &RouterDeps{
		HealthChecker:     &mockPinger{},
		SessionFinder:     finder,
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		CSRFConfig:        middleware.CSRFConfig{},
		MetricsCollector:  &mockStatusRecorder{},
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		AuthService:       &mockAuthService{},
		AuthConfig:        testAuthConfig(),
		RecipeService:     &mockRecipeService{},
		SearchService:     &mockSearchService{},
		AdminService:      &mockAdminService{},
		FavoriteService:   &mockFavoriteService{},
		IngredientService: &mockIngredientService{},
	}, finder
}

func TestRouter_Health(t *testing.T) {
	deps, _ := testRouterDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_HealthWithDBFailure(t *testing.T) {
	deps, _ := testRouterDeps(t)
	deps.HealthChecker = &mockPinger{err: errors.New("connection refused")}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRouter_PublicSearchRoute(t *testing.T) {
	deps, _ := testRouterDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/recherche?texte=tarte", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	// セキュリティヘッダーがグローバルに適用される
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("セキュリティヘッダーが設定されていない")
	}
}

// TestRouter_FavoritesRequireSession はお気に入りルートが
// セッション認証を要求することを検証する。
func TestRouter_FavoritesRequireSession(t *testing.T) {
	deps, _ := testRouterDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/favoris", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestRouter_AdminRequiresAdminRole は/admin/*が管理者ロールを
// 要求することを検証する。
func TestRouter_AdminRequiresAdminRole(t *testing.T) {
	deps, finder := testRouterDeps(t)
	finder.findByIDFn = func(ctx context.Context, id string) (*model.Session, error) {
		return &model.Session{ID: id, UserID: 7, UserRole: model.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/admin/recettes", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRouter_AdminListWithAdminSession(t *testing.T) {
	deps, finder := testRouterDeps(t)
	finder.findByIDFn = func(ctx context.Context, id string) (*model.Session, error) {
		return &model.Session{ID: id, UserID: 1, UserRole: model.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/admin/recettes", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRouter_CSRFGuardsStateChanges は状態変更リクエストがグローバルな
// CSRF検証で弾かれることを検証する。
func TestRouter_CSRFGuardsStateChanges(t *testing.T) {
	deps, _ := testRouterDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRouter_CSRFTokenEndpoint(t *testing.T) {
	deps, _ := testRouterDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_RecordsHTTPStatusMetrics(t *testing.T) {
	deps, _ := testRouterDeps(t)
	collector := &mockStatusRecorder{}
	deps.MetricsCollector = collector
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if len(collector.statuses) != 1 || collector.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", collector.statuses)
	}
}
