package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ilyassman/super-recipe-roulette/internal/recipe"
	"github.com/ilyassman/super-recipe-roulette/internal/search"
)

// SearchServiceInterface は検索ハンドラーが必要とするサービスインターフェース。
type SearchServiceInterface interface {
	// Search はフィルタ検索の1ページ分を返す。
	Search(ctx context.Context, f search.Filters, page int) (*recipe.ListPage, error)
}

// SearchHandler はレシピ検索のHTTPハンドラー。
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search はクエリパラメータによるフィルタ検索を処理する。
// GET /api/recherche?texte=&categorie=&difficulte=&tempsMax=&ingredients=&page=
//
// 数値に解釈できないtempsMaxとpageは指定なしとして扱う。
// ingredientsは繰り返しパラメータとカンマ区切りのどちらも受け付ける。
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := search.Filters{
		Texte:       strings.TrimSpace(q.Get("texte")),
		Categorie:   strings.TrimSpace(q.Get("categorie")),
		Difficulte:  strings.TrimSpace(q.Get("difficulte")),
		Ingredients: parseIngredientTerms(q["ingredients"]),
	}

	if raw := q.Get("tempsMax"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			filters.TempsMax = v
		}
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	result, err := h.service.Search(r.Context(), filters, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// parseIngredientTerms は繰り返し・カンマ区切り混在の食材キーワードを
// 空白除去済みの重複なしリストに展開する。
func parseIngredientTerms(values []string) []string {
	var terms []string
	seen := make(map[string]struct{})

	for _, value := range values {
		for _, term := range strings.Split(value, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := strings.ToLower(term)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, term)
		}
	}

	return terms
}
