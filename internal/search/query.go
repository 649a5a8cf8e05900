// Package search はレシピ検索のクエリ構築とページネーションを提供する。
//
// フィルタ条件は指定されたものだけがAND結合され、全て空の場合は
// 全レシピにマッチする。件数取得用クエリとページ取得用クエリは
// 同一のフィルタパラメータ列を共有する。
package search

import (
	"fmt"
	"strings"
)

// recipeColumns はページクエリが取得するカラム列。
const recipeColumns = `r.id, r.titre, r.description, r.categorie, r.temps_preparation,
	       r.difficulte, r.portions_defaut, r.image, r.date_creation`

// Filters は検索リクエストの任意フィルタの集合を表す。
// ゼロ値のフィールドは条件に寄与しない。
type Filters struct {
	// Texte はタイトル前方一致（大文字小文字無視）の検索語。
	Texte string
	// Categorie はカテゴリの完全一致。
	Categorie string
	// Difficulte は難易度ラベルの完全一致。
	Difficulte string
	// TempsMax は調理時間の上限（分）。0以下は未指定扱い。
	// temps_preparationがNULLのレシピは常に範囲内とみなす。
	TempsMax int
	// Ingredients は説明文に対する部分一致語のリスト。
	// 各語はOR結合され、そのグループ全体が他の条件とAND結合される。
	Ingredients []string
}

// Query は構築済みのSQLペアとパラメータを保持する。
// CountSQLはフィルタパラメータのみ、PageSQLは末尾にLIMITとOFFSETの
// プレースホルダを追加で持つ。
type Query struct {
	CountSQL string
	PageSQL  string
	Params   []any
}

// Build はフィルタ集合からCOUNTクエリとページクエリを構築する。
// 結果は常にdate_creationの降順（新着順）で並ぶ。
func Build(f Filters) Query {
	var conds []string
	var params []any

	next := func() int { return len(params) + 1 }

	if t := strings.TrimSpace(f.Texte); t != "" {
		conds = append(conds, fmt.Sprintf("r.titre ILIKE $%d", next()))
		params = append(params, t+"%")
	}

	if f.Categorie != "" {
		conds = append(conds, fmt.Sprintf("r.categorie = $%d", next()))
		params = append(params, f.Categorie)
	}

	if f.Difficulte != "" {
		conds = append(conds, fmt.Sprintf("r.difficulte = $%d", next()))
		params = append(params, f.Difficulte)
	}

	if f.TempsMax > 0 {
		conds = append(conds, fmt.Sprintf("(r.temps_preparation IS NULL OR r.temps_preparation <= $%d)", next()))
		params = append(params, f.TempsMax)
	}

	var ingConds []string
	for _, ing := range f.Ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			continue
		}
		ingConds = append(ingConds, fmt.Sprintf("r.description ILIKE $%d", next()))
		params = append(params, "%"+ing+"%")
	}
	if len(ingConds) > 0 {
		conds = append(conds, "("+strings.Join(ingConds, " OR ")+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM recipes r" + where
	pageSQL := fmt.Sprintf(
		"SELECT %s FROM recipes r%s ORDER BY r.date_creation DESC LIMIT $%d OFFSET $%d",
		recipeColumns, where, len(params)+1, len(params)+2,
	)

	return Query{
		CountSQL: countSQL,
		PageSQL:  pageSQL,
		Params:   params,
	}
}
