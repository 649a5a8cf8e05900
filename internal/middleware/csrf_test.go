package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfHandler() http.Handler {
	mw := NewCSRFMiddleware(CSRFConfig{})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// TestCSRFMiddleware_SafeMethodSetsCookie は安全なメソッドが検証なしで
// 通過し、トークンCookieが未設定なら設定されることを検証する。
func TestCSRFMiddleware_SafeMethodSetsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/recherche", nil)
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			found = true
			if c.Value == "" {
				t.Error("CSRFトークンが空")
			}
			if c.HttpOnly {
				t.Error("CSRF CookieはHttpOnlyであってはならない")
			}
		}
	}
	if !found {
		t.Error("CSRF Cookieが設定されていない")
	}
}

func TestCSRFMiddleware_SafeMethodKeepsExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/recherche", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			t.Error("既存のCSRF Cookieが上書きされた")
		}
	}
}

func TestCSRFMiddleware_PostWithoutTokenIsForbidden(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/recettes", nil)
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCSRFMiddleware_PostWithMismatchedTokenIsForbidden(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/recettes", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "token-a"})
	req.Header.Set(csrfHeaderName, "token-b")
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCSRFMiddleware_PostWithMatchingTokenPasses(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/recettes", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "token-a"})
	req.Header.Set(csrfHeaderName, "token-a")
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCSRFTokenHandler_IssuesToken(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{CookieMaxAge: 3600})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if body["token"] == "" {
		t.Error("トークンが空")
	}

	var cookieToken string
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookieToken = c.Value
			if c.MaxAge != 3600 {
				t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
			}
		}
	}
	if cookieToken != body["token"] {
		t.Error("Cookieとレスポンスのトークンが一致しない")
	}
}

func TestCSRFTokenHandler_ReusesExistingToken(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if body["token"] != "existing" {
		t.Errorf("token = %q, want existing", body["token"])
	}
}
