package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// IngredientServiceInterface は食材ハンドラーが必要とするサービスインターフェース。
type IngredientServiceInterface interface {
	// List は食材マスタを名前順で返す。
	List(ctx context.Context) ([]model.Ingredient, error)
}

// IngredientHandler は食材マスタのHTTPハンドラー。
// 検索フォームのサジェスト用に全食材を公開する。
type IngredientHandler struct {
	service IngredientServiceInterface
}

// NewIngredientHandler はIngredientHandlerを生成する。
func NewIngredientHandler(service IngredientServiceInterface) *IngredientHandler {
	return &IngredientHandler{service: service}
}

// List は食材マスタの一覧を返す。
// GET /api/ingredients
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ingredients)
}
