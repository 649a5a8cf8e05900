package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Exists は(ユーザー, レシピ)のお気に入りが存在するかを返す。
func (r *PostgresFavoriteRepo) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`,
		userID, recipeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("お気に入りの確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Create はお気に入りを作成する。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, userID, recipeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`,
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はお気に入りを削除する。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, userID, recipeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	return nil
}

// ListRecipesByUser はユーザーがお気に入り登録したレシピを新着順で返す。
func (r *PostgresFavoriteRepo) ListRecipesByUser(ctx context.Context, userID int64) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.titre, r.description, r.categorie, r.temps_preparation,
		        r.difficulte, r.portions_defaut, r.image, r.date_creation
		 FROM favorites f
		 JOIN recipes r ON f.recipe_id = r.id
		 WHERE f.user_id = $1
		 ORDER BY r.date_creation DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
