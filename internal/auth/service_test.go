package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// mockUserRepo は関数フィールドで挙動を差し替えるモック。
type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByIDFn    func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func adminUser() *model.User {
	return &model.User{
		ID:         1,
		Nom:        "Admin",
		Email:      "admin@gmail.com",
		MotDePasse: "admin",
		Role:       model.RoleAdmin,
	}
}

func TestLogin_Success(t *testing.T) {
	var created *model.Session
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "admin@gmail.com" {
				t.Errorf("email = %q", email)
			}
			return adminUser(), nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	session, user, err := svc.Login(context.Background(), "admin@gmail.com", "admin")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != 1 || user.Role != model.RoleAdmin {
		t.Errorf("user = %+v", user)
	}
	if session.ID == "" {
		t.Error("セッションIDが発行されていない")
	}
	if session.UserID != 1 || session.UserRole != model.RoleAdmin {
		t.Errorf("session = %+v", session)
	}

	wantExpiry := session.CreatedAt.Add(time.Hour)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, wantExpiry)
	}
	if created == nil || created.ID != session.ID {
		t.Error("セッションが永続化されていない")
	}
}

// TestLogin_WrongPassword はパスワード不一致とユーザー不在が
// 同一のINVALID_CREDENTIALSになることを検証する。
func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		users *mockUserRepo
	}{
		{
			name: "パスワード不一致",
			users: &mockUserRepo{
				findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
					return adminUser(), nil
				},
			},
		},
		{
			name:  "ユーザー不在",
			users: &mockUserRepo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.users, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

			_, _, err := svc.Login(context.Background(), "admin@gmail.com", "mauvais")

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
				t.Errorf("Login() error = %v, want INVALID_CREDENTIALS", err)
			}
		})
	}
}

func TestLogin_SessionCreateFailure(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return adminUser(), nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			return errors.New("db down")
		},
	}
	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if _, _, err := svc.Login(context.Background(), "admin@gmail.com", "admin"); err == nil {
		t.Error("Login() error = nil, want error")
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deletedID != "sess-1" {
		t.Errorf("deletedID = %q, want sess-1", deletedID)
	}
}

func TestCurrentUser_Success(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 1, UserRole: model.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return adminUser(), nil
		},
	}
	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	user, err := svc.CurrentUser(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Email != "admin@gmail.com" {
		t.Errorf("user = %+v", user)
	}
}

// TestCurrentUser_ExpiredSession は期限切れセッション（リポジトリがnilを返す）
// がUNAUTHORIZEDになることを検証する。
func TestCurrentUser_ExpiredSession(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.CurrentUser(context.Background(), "sess-expiree")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("CurrentUser() error = %v, want UNAUTHORIZED", err)
	}
}

func TestCurrentUser_UserMissing(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 42}, nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.CurrentUser(context.Background(), "sess-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("CurrentUser() error = %v, want UNAUTHORIZED", err)
	}
}
