package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ilyassman/super-recipe-roulette/internal/middleware"
	"github.com/ilyassman/super-recipe-roulette/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	// Toggle はお気に入りの登録・解除を切り替え、切替後の状態を返す。
	Toggle(ctx context.Context, userID, recipeID int64) (bool, error)
	// List はユーザーのお気に入りレシピを新着順で返す。
	List(ctx context.Context, userID int64) ([]model.Recipe, error)
}

// FavoriteHandler はお気に入り管理のHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// toggleFavoriteResponse はお気に入り切替のAPIレスポンス。
type toggleFavoriteResponse struct {
	RecipeID int64 `json:"recipe_id"`
	Favori   bool  `json:"favori"`
}

// Toggle はお気に入りの登録・解除を処理する。
// POST /api/recettes/:id/favori
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	favori, err := h.service.Toggle(r.Context(), userID, recipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toggleFavoriteResponse{
		RecipeID: recipeID,
		Favori:   favori,
	})
}

// List はユーザーのお気に入りレシピ一覧を返す。
// GET /api/favoris
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	recipes, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if recipes == nil {
		recipes = []model.Recipe{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}
