// Package auth はログイン認証とセッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login はメールアドレスとパスワードを検証し、セッションを発行する。
//
// パスワードは平文比較。元システムから引き継いだ既知の弱点であり、
// ハッシュ化への移行は独立したスコープの明示的な判断として扱う。
// ユーザー不在とパスワード不一致はどちらもINVALID_CREDENTIALSになる。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil || user.MotDePasse != password {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserRole:  user.Role,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("ログインしました",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return session, user, nil
}

// Logout はセッションを破棄する。
// 既に存在しないセッションの破棄もエラーにはしない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの破棄に失敗しました: %w", err)
	}
	return nil
}

// CurrentUser はセッションIDに対応するユーザーを返す。
// セッションが存在しない・期限切れの場合はUNAUTHORIZEDを返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}
	return user, nil
}
