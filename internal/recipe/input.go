// Package recipe はレシピ集約の作成・編集・削除と参照のドメインロジックを提供する。
package recipe

import (
	"strconv"
	"strings"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// Form はHTTP層でパース済みのレシピ投稿フォームを表す。
// 食材の3配列（名前・分量・単位）はインデックスで対応づく並行配列。
type Form struct {
	Titre            string
	Description      string
	Categorie        string
	TempsPreparation string
	Difficulte       string
	PortionsDefaut   string

	IngredientNoms      []string
	IngredientQuantites []string
	IngredientUnites    []string

	Instructions []string
}

// normalizeText は前後の空白を除去する。
func normalizeText(s string) string {
	return strings.TrimSpace(s)
}

// parseIntOrNil は数値文字列を寛容にパースする。空・解釈不能はnilを返す。
func parseIntOrNil(s string) *int {
	s = normalizeText(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseFloatOrNil は数値文字列を寛容にパースする。空・解釈不能はnilを返す。
func parseFloatOrNil(s string) *float64 {
	s = normalizeText(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parsePortions は人数分を寛容にパースする。空・解釈不能は既定値を返す。
func parsePortions(s string) int {
	if n := parseIntOrNil(s); n != nil {
		return *n
	}
	return model.DefaultPortions
}

// parseInput はフォームのスカラーフィールドを検証・正規化する。
// titreとcategorieは必須で、欠けている場合はいかなる書き込みよりも前に
// VALIDATION_ERRORで失敗する。
func parseInput(form Form) (model.RecipeInput, error) {
	titre := normalizeText(form.Titre)
	categorie := normalizeText(form.Categorie)

	if titre == "" || categorie == "" {
		return model.RecipeInput{}, model.NewValidationError("タイトルとカテゴリは必須です。")
	}

	return model.RecipeInput{
		Titre:            titre,
		Description:      normalizeText(form.Description),
		Categorie:        categorie,
		TempsPreparation: parseIntOrNil(form.TempsPreparation),
		Difficulte:       normalizeText(form.Difficulte),
		PortionsDefaut:   parsePortions(form.PortionsDefaut),
	}, nil
}

// extractIngredients は並行3配列から食材行を抽出する。
// 最長の配列に合わせてインデックスを走査し、名前が空の行は捨てる。
// 同一提出内で大文字小文字のみ異なる重複名は最初の1件だけ残す。
func extractIngredients(noms, quantites, unites []string) []model.IngredientLine {
	maxLen := len(noms)
	if len(quantites) > maxLen {
		maxLen = len(quantites)
	}
	if len(unites) > maxLen {
		maxLen = len(unites)
	}

	at := func(s []string, i int) string {
		if i < len(s) {
			return s[i]
		}
		return ""
	}

	lines := []model.IngredientLine{}
	seen := map[string]struct{}{}

	for i := 0; i < maxLen; i++ {
		nom := normalizeText(at(noms, i))
		if nom == "" {
			continue
		}
		key := strings.ToLower(nom)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		line := model.IngredientLine{
			Nom:      nom,
			Quantite: parseFloatOrNil(at(quantites, i)),
		}
		if unite := normalizeText(at(unites, i)); unite != "" {
			line.Unite = &unite
		}
		lines = append(lines, line)
	}

	return lines
}

// extractInstructions は手順の配列を正規化する。
// 各手順を前後空白除去し、空の手順は捨て、提出順を維持する。
func extractInstructions(steps []string) []string {
	out := []string{}
	for _, step := range steps {
		if s := normalizeText(step); s != "" {
			out = append(out, s)
		}
	}
	return out
}
