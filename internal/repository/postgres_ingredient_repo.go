package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// PostgresIngredientRepo はPostgreSQLを使用した食材マスタリポジトリ。
type PostgresIngredientRepo struct {
	db *sql.DB
}

// NewPostgresIngredientRepo はPostgresIngredientRepoを生成する。
func NewPostgresIngredientRepo(db *sql.DB) *PostgresIngredientRepo {
	return &PostgresIngredientRepo{db: db}
}

// Resolve は食材名を大文字小文字無視で既存行に解決し、
// なければ元の表記のまま新規作成してIDを返す。
func (r *PostgresIngredientRepo) Resolve(ctx context.Context, nom string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM ingredients WHERE LOWER(nom) = LOWER($1) LIMIT 1`,
		nom,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("食材の検索に失敗しました: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO ingredients (nom) VALUES ($1) RETURNING id`,
		nom,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("食材の作成に失敗しました: %w", err)
	}

	return id, nil
}

// List は食材マスタの全件を名前順で返す。
func (r *PostgresIngredientRepo) List(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nom FROM ingredients ORDER BY nom ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("食材一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Nom); err != nil {
			return nil, fmt.Errorf("食材行の読み取りに失敗しました: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("食材行の読み取りに失敗しました: %w", err)
	}

	return ingredients, nil
}

// compile-time interface check
var _ IngredientRepository = (*PostgresIngredientRepo)(nil)
