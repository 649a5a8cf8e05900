package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/search"
)

// recipeColumns はレシピ取得クエリの共通カラム列。
const recipeColumns = `id, titre, description, categorie, temps_preparation,
	       difficulte, portions_defaut, image, date_creation`

// PostgresRecipeRepo はPostgreSQLを使用したレシピリポジトリ。
type PostgresRecipeRepo struct {
	db *sql.DB
}

// NewPostgresRecipeRepo はPostgresRecipeRepoを生成する。
func NewPostgresRecipeRepo(db *sql.DB) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{db: db}
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`,
		id,
	)

	recipe, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}

	return recipe, nil
}

// FindDetailByID はレシピと食材行・手順をまとめて取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindDetailByID(ctx context.Context, id int64) (*model.RecipeDetail, error) {
	recipe, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, nil
	}

	detail := &model.RecipeDetail{
		Recipe:       *recipe,
		Ingredients:  []model.IngredientLine{},
		Instructions: []model.InstructionStep{},
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT i.nom, ri.quantite, ri.unite
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON ri.ingredient_id = i.id
		 WHERE ri.recipe_id = $1
		 ORDER BY i.nom ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("食材行の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.IngredientLine
		var quantite sql.NullFloat64
		var unite sql.NullString

		if err := rows.Scan(&line.Nom, &quantite, &unite); err != nil {
			return nil, fmt.Errorf("食材行の読み取りに失敗しました: %w", err)
		}
		if quantite.Valid {
			q := quantite.Float64
			line.Quantite = &q
		}
		if unite.Valid {
			u := unite.String
			line.Unite = &u
		}
		detail.Ingredients = append(detail.Ingredients, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("食材行の読み取りに失敗しました: %w", err)
	}

	stepRows, err := r.db.QueryContext(ctx,
		`SELECT numero_etape, description
		 FROM recipe_instructions
		 WHERE recipe_id = $1
		 ORDER BY numero_etape ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("手順の取得に失敗しました: %w", err)
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var step model.InstructionStep
		if err := stepRows.Scan(&step.NumeroEtape, &step.Description); err != nil {
			return nil, fmt.Errorf("手順の読み取りに失敗しました: %w", err)
		}
		detail.Instructions = append(detail.Instructions, step)
	}
	if err := stepRows.Err(); err != nil {
		return nil, fmt.Errorf("手順の読み取りに失敗しました: %w", err)
	}

	return detail, nil
}

// List はレシピ一覧を新着順でページ取得する。
func (r *PostgresRecipeRepo) List(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY date_creation DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("レシピ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// Count は全レシピ件数を返す。
func (r *PostgresRecipeRepo) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("レシピ件数の取得に失敗しました: %w", err)
	}
	return total, nil
}

// Search はフィルタ条件に一致するレシピのページと総件数を返す。
func (r *PostgresRecipeRepo) Search(ctx context.Context, f search.Filters, limit, offset int) ([]model.Recipe, int, error) {
	q := search.Build(f)

	var total int
	if err := r.db.QueryRowContext(ctx, q.CountSQL, q.Params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("検索件数の取得に失敗しました: %w", err)
	}

	pageParams := append(append([]any{}, q.Params...), limit, offset)
	rows, err := r.db.QueryContext(ctx, q.PageSQL, pageParams...)
	if err != nil {
		return nil, 0, fmt.Errorf("レシピ検索に失敗しました: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// ListSuggestions は指定レシピ以外からランダムにlimit件を返す。
func (r *PostgresRecipeRepo) ListSuggestions(ctx context.Context, excludeID int64, limit int) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id != $1 ORDER BY RANDOM() LIMIT $2`,
		excludeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("おすすめレシピの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// CreateAggregate はレシピ集約を1トランザクションで作成し、新規IDを返す。
func (r *PostgresRecipeRepo) CreateAggregate(ctx context.Context, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	var recipeID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO recipes (titre, description, categorie, temps_preparation, difficulte, portions_defaut, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		input.Titre, nullString(input.Description), input.Categorie,
		nullIntRef(input.TempsPreparation), nullString(input.Difficulte),
		input.PortionsDefaut, nullStringRef(input.Image),
	).Scan(&recipeID)
	if err != nil {
		return 0, fmt.Errorf("レシピの作成に失敗しました: %w", err)
	}

	if err := r.insertLines(ctx, tx, recipeID, ingredients, instructions); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return recipeID, nil
}

// ReplaceAggregate はレシピ集約を1トランザクションで全置換する。
// 既存の食材行・手順は削除してから提出内容で再作成する。
func (r *PostgresRecipeRepo) ReplaceAggregate(ctx context.Context, id int64, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE recipes
		 SET titre = $1, description = $2, categorie = $3, temps_preparation = $4,
		     difficulte = $5, portions_defaut = $6, image = $7
		 WHERE id = $8`,
		input.Titre, nullString(input.Description), input.Categorie,
		nullIntRef(input.TempsPreparation), nullString(input.Difficulte),
		input.PortionsDefaut, nullStringRef(input.Image), id,
	)
	if err != nil {
		return fmt.Errorf("レシピの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewRecipeNotFoundError(id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("食材行の削除に失敗しました: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_instructions WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("手順の削除に失敗しました: %w", err)
	}

	if err := r.insertLines(ctx, tx, id, ingredients, instructions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return nil
}

// DeleteAggregate はお気に入り・食材行・手順・レシピ本体を1トランザクションで削除する。
func (r *PostgresRecipeRepo) DeleteAggregate(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("食材行の削除に失敗しました: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_instructions WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("手順の削除に失敗しました: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("レシピの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewRecipeNotFoundError(id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return nil
}

// insertLines は食材行と手順をトランザクション内で挿入する。
// 手順のステップ番号は提出順から1始まりで採番する。
func (r *PostgresRecipeRepo) insertLines(ctx context.Context, tx *sql.Tx, recipeID int64, ingredients []model.IngredientLine, instructions []string) error {
	for _, line := range ingredients {
		ingredientID, err := resolveIngredientTx(ctx, tx, line.Nom)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantite, unite)
			 VALUES ($1, $2, $3, $4)`,
			recipeID, ingredientID, nullFloatRef(line.Quantite), nullStringRef(line.Unite),
		)
		if err != nil {
			return fmt.Errorf("食材行の挿入に失敗しました: %w", err)
		}
	}

	for i, description := range instructions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_instructions (recipe_id, numero_etape, description)
			 VALUES ($1, $2, $3)`,
			recipeID, i+1, description,
		)
		if err != nil {
			return fmt.Errorf("手順の挿入に失敗しました: %w", err)
		}
	}

	return nil
}

// resolveIngredientTx は食材名を大文字小文字無視で既存行に解決し、
// なければ元の表記のまま新規作成してIDを返す。
func resolveIngredientTx(ctx context.Context, tx *sql.Tx, nom string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM ingredients WHERE LOWER(nom) = LOWER($1) LIMIT 1`,
		nom,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("食材の検索に失敗しました: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO ingredients (nom) VALUES ($1) RETURNING id`,
		nom,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("食材の作成に失敗しました: %w", err)
	}

	return id, nil
}

// rowScanner は*sql.Rowと*sql.Rowsを共通に扱うための最小インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecipe はレシピ1行を読み取る。
func scanRecipe(row rowScanner) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	var description, difficulte, image sql.NullString
	var tempsPreparation sql.NullInt64

	err := row.Scan(
		&recipe.ID, &recipe.Titre, &description, &recipe.Categorie,
		&tempsPreparation, &difficulte, &recipe.PortionsDefaut,
		&image, &recipe.DateCreation,
	)
	if err != nil {
		return nil, err
	}

	recipe.Description = nullStringValue(description)
	recipe.Difficulte = nullStringValue(difficulte)
	if tempsPreparation.Valid {
		t := int(tempsPreparation.Int64)
		recipe.TempsPreparation = &t
	}
	if image.Valid {
		img := image.String
		recipe.Image = &img
	}

	return recipe, nil
}

// scanRecipes はレシピ行の集合を読み取る。
func scanRecipes(rows *sql.Rows) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("レシピ行の読み取りに失敗しました: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レシピ行の読み取りに失敗しました: %w", err)
	}
	return recipes, nil
}

// compile-time interface check
var _ RecipeRepository = (*PostgresRecipeRepo)(nil)
