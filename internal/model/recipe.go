// Package model はドメインモデルを定義する。
package model

import "time"

// Recipe はレシピを表す。
// カラム名は元データベースに合わせてフランス語表記を維持している。
// TempsPreparationとImageのnilは「未設定」を意味し、検索条件の判定に使われる。
type Recipe struct {
	ID               int64      `json:"id"`
	Titre            string     `json:"titre"`
	Description      string     `json:"description"`
	Categorie        string     `json:"categorie"`
	TempsPreparation *int       `json:"temps_preparation"`
	Difficulte       string     `json:"difficulte"`
	PortionsDefaut   int        `json:"portions_defaut"`
	Image            *string    `json:"image"`
	DateCreation     time.Time  `json:"date_creation"`
}

// DefaultPortions はportions_defautの既定値。
const DefaultPortions = 4

// Ingredient は正規化済みの食材マスタレコードを表す。
// 名前は大文字小文字を無視して一意（スペルは初回登録時のまま保持）。
type Ingredient struct {
	ID  int64  `json:"id"`
	Nom string `json:"nom"`
}

// IngredientLine はレシピ1件に属する食材行（食材名 + 分量 + 単位）を表す。
// QuantiteとUniteのnilは未入力を意味する。
type IngredientLine struct {
	Nom      string   `json:"nom"`
	Quantite *float64 `json:"quantite"`
	Unite    *string  `json:"unite"`
}

// InstructionStep はレシピの調理手順1ステップを表す。
// NumeroEtapeは書き込み時に提出順から1始まりで振り直されるため、
// 常に欠番のない連番になる。
type InstructionStep struct {
	NumeroEtape int    `json:"numero_etape"`
	Description string `json:"description"`
}

// RecipeDetail はレシピ本体と従属データ（食材行・手順）をまとめた集約ビュー。
type RecipeDetail struct {
	Recipe
	Ingredients  []IngredientLine  `json:"ingredients"`
	Instructions []InstructionStep `json:"instructions"`
}

// RecipeInput はレシピ作成・編集で正規化済みのスカラーフィールドを表す。
// 正規化はrecipeパッケージのパース関数が行い、リポジトリは検証済みの値のみ受け取る。
type RecipeInput struct {
	Titre            string
	Description      string
	Categorie        string
	TempsPreparation *int
	Difficulte       string
	PortionsDefaut   int
	Image            *string
}

// UploadedFile はHTTP層でパース済みのアップロードファイルを表す。
// Nameはクライアントが送信した元のファイル名。
type UploadedFile struct {
	Name string
	Data []byte
}
