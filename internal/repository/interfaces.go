// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/search"
)

// RecipeRepository はレシピ集約の永続化インターフェース。
//
// 集約（レシピ本体 + 食材行 + 手順）は常に1トランザクションで
// 作成・置換・削除される。編集は差分適用ではなく「全置換」を契約とする:
// 成功後の食材行と手順は提出された内容と完全に一致し、
// 前バージョンの行は一切残らない。
type RecipeRepository interface {
	// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Recipe, error)

	// FindDetailByID はレシピと食材行・手順をまとめて取得する。
	// 見つからない場合はnilを返す。手順はnumero_etapeの昇順で並ぶ。
	FindDetailByID(ctx context.Context, id int64) (*model.RecipeDetail, error)

	// List はレシピ一覧を新着順でページ取得する。
	List(ctx context.Context, limit, offset int) ([]model.Recipe, error)

	// Count は全レシピ件数を返す。
	Count(ctx context.Context) (int, error)

	// Search はフィルタ条件に一致するレシピのページと総件数を返す。
	// 件数取得とページ取得は同一のフィルタパラメータを共有する。
	Search(ctx context.Context, f search.Filters, limit, offset int) ([]model.Recipe, int, error)

	// ListSuggestions は指定レシピ以外からランダムにlimit件を返す。
	ListSuggestions(ctx context.Context, excludeID int64, limit int) ([]model.Recipe, error)

	// CreateAggregate はレシピ集約を1トランザクションで作成し、新規IDを返す。
	// 食材名は大文字小文字を無視して既存行に解決され、なければ作成される。
	// 手順のステップ番号は提出順から1始まりで採番される。
	CreateAggregate(ctx context.Context, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) (int64, error)

	// ReplaceAggregate はレシピ集約を1トランザクションで全置換する。
	// 既存の食材行・手順は削除してから提出内容で再作成する。
	// レシピが存在しない場合はRECIPE_NOT_FOUNDを返す。
	ReplaceAggregate(ctx context.Context, id int64, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) error

	// DeleteAggregate はお気に入り・食材行・手順・レシピ本体を
	// 1トランザクションで削除する。レシピが存在しない場合はRECIPE_NOT_FOUNDを返す。
	// 食材マスタの行は削除しない。
	DeleteAggregate(ctx context.Context, id int64) error
}

// IngredientRepository は食材マスタの永続化インターフェース。
// 大文字小文字のみ異なる名前は常に同一IDに解決される。
// レシピ操作が食材マスタの行を削除することはない。
type IngredientRepository interface {
	// Resolve は食材名に一致する食材IDを返す。存在しなければ
	// 元の表記のまま新規作成してそのIDを返す。
	Resolve(ctx context.Context, nom string) (int64, error)

	// List は食材マスタの全件を名前順で返す。
	List(ctx context.Context) ([]model.Ingredient, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
type FavoriteRepository interface {
	// Exists は(ユーザー, レシピ)のお気に入りが存在するかを返す。
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	// Create はお気に入りを作成する。
	Create(ctx context.Context, userID, recipeID int64) error
	// Delete はお気に入りを削除する。
	Delete(ctx context.Context, userID, recipeID int64) error
	// ListRecipesByUser はユーザーがお気に入り登録したレシピを新着順で返す。
	ListRecipesByUser(ctx context.Context, userID int64) ([]model.Recipe, error)
}
