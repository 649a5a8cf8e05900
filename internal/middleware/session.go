// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// SessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// userRoleContextKey はリクエストコンテキストにユーザーロールを格納するためのキー。
var userRoleContextKey = contextKey("user_role")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 認証済みユーザーIDとロールをリクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := lookupSession(w, r, sessionFinder)
			if !ok {
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), session)))
		})
	}
}

// NewAdminMiddleware はセッション検証に加えて管理者ロールを要求する
// ミドルウェアを返す。未認証は401、権限不足は403を返す。
func NewAdminMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := lookupSession(w, r, sessionFinder)
			if !ok {
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if session.UserRole != model.RoleAdmin {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), session)))
		})
	}
}

// lookupSession はCookieからセッションを検索する。
// Cookie欠落・期限切れはセッションnilとして返し、検索エラー時のみ
// レスポンスを書き込んでfalseを返す。
func lookupSession(w http.ResponseWriter, r *http.Request, finder SessionFinder) (*model.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, true
	}

	session, err := finder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("セッションの検索に失敗しました",
			slog.String("error", err.Error()),
		)
		WriteInternalServerError(w)
		return nil, false
	}

	return session, true
}

// contextWithSession は認証済みユーザーIDとロールをコンテキストに注入する。
func contextWithSession(ctx context.Context, session *model.Session) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey, session.UserID)
	return context.WithValue(ctx, userRoleContextKey, session.UserRole)
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// UserRoleFromContext はリクエストコンテキストからユーザーロールを取得する。
func UserRoleFromContext(ctx context.Context) (string, error) {
	role, ok := ctx.Value(userRoleContextKey).(string)
	if !ok || role == "" {
		return "", fmt.Errorf("user role not found in context")
	}
	return role, nil
}

// ContextWithUser はコンテキストにユーザーIDとロールを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey, userID)
	return context.WithValue(ctx, userRoleContextKey, role)
}
