package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// mockAuthService は関数フィールドで挙動を差し替えるモック。
type mockAuthService struct {
	loginFn       func(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	logoutFn      func(ctx context.Context, sessionID string) error
	currentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil, model.NewInvalidCredentialsError()
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, sessionID)
	}
	return nil, model.NewUnauthorizedError()
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{SessionMaxAge: 3600}
}

func TestLogin_Success(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
			session := &model.Session{ID: "sess-1", UserID: 1, UserRole: model.RoleAdmin}
			user := &model.User{ID: 1, Nom: "Admin", Email: email, MotDePasse: password, Role: model.RoleAdmin}
			return session, user, nil
		},
	}
	handler := NewAuthHandler(service, testAuthConfig())

	body := `{"email":"admin@gmail.com","mot_de_passe":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// セッションCookieがHttpOnlyで設定される
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("セッションCookieが設定されていない")
	}
	if sessionCookie.Value != "sess-1" || !sessionCookie.HttpOnly {
		t.Errorf("cookie = %+v", sessionCookie)
	}
	if sessionCookie.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", sessionCookie.MaxAge)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if resp["nom"] != "Admin" || resp["role"] != "admin" {
		t.Errorf("response = %v", resp)
	}
	if _, ok := resp["mot_de_passe"]; ok {
		t.Error("レスポンスにパスワードフィールドが含まれている")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	body := `{"email":"admin@gmail.com","mot_de_passe":"mauvais"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if resp.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want INVALID_CREDENTIALS", resp.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
			t.Error("必須フィールド欠落時にサービスが呼ばれた")
			return nil, nil, nil
		},
	}, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("pas du json"))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	var loggedOut string
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	handler := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if loggedOut != "sess-1" {
		t.Errorf("logged out session = %q, want sess-1", loggedOut)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge >= 0 {
			t.Errorf("CookieのMaxAge = %d, want 負値", c.MaxAge)
		}
	}
}

// TestLogout_ServiceFailureStillClearsCookie はセッション破棄の失敗が
// Cookieクリアを妨げないことを検証する。
func TestLogout_ServiceFailureStillClearsCookie(t *testing.T) {
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			return errors.New("db down")
		},
	}
	handler := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("セッションCookieがクリアされていない")
	}
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	service := &mockAuthService{
		currentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID != "sess-1" {
				t.Errorf("sessionID = %q", sessionID)
			}
			return &model.User{ID: 1, Nom: "Admin", Email: "admin@gmail.com", Role: model.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if resp["email"] != "admin@gmail.com" {
		t.Errorf("response = %v", resp)
	}
}

func TestMe_WithoutCookie(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMe_ExpiredSession(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-expiree"})
	rec := httptest.NewRecorder()
	handler.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
