// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は認証情報を検証し、セッションとユーザーを返す。
	Login(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	// Logout はセッションを破棄する。
	Logout(ctx context.Context, sessionID string) error
	// CurrentUser はセッションIDに対応するユーザーを返す。
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はログイン認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email      string `json:"email"`
	MotDePasse string `json:"mot_de_passe"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID    int64  `json:"id"`
	Nom   string `json:"nom"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login はメールアドレスとパスワードによるログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	if req.Email == "" || req.MotDePasse == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("メールアドレスとパスワードは必須です。"))
		return
	}

	session, user, err := h.service.Login(r.Context(), req.Email, req.MotDePasse)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// セッションCookieの取得
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッションをDBから削除
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
// パスワードは決して含めない。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Nom:   user.Nom,
		Email: user.Email,
		Role:  user.Role,
	}
}
