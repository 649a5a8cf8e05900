package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nom, email, mot_de_passe, role FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Nom, &user.Email, &user.MotDePasse, &user.Role)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nom, email, mot_de_passe, role FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Nom, &user.Email, &user.MotDePasse, &user.Role)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
