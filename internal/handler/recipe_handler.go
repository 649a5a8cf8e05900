package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/recipe"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	// Get は指定IDのレシピを返す。
	Get(ctx context.Context, id int64) (*model.Recipe, error)
	// GetDetail はレシピ集約とおすすめレシピを返す。
	GetDetail(ctx context.Context, id int64) (*recipe.Detail, error)
}

// RecipeHandler はレシピ閲覧のHTTPハンドラー。
type RecipeHandler struct {
	service RecipeServiceInterface
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// GetRecipe はレシピの基本情報を取得する。
// GET /api/recettes/:id
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// GetRecipeDetail はレシピ集約（食材・手順）とおすすめレシピを取得する。
// GET /api/recettes/:id/details
func (h *RecipeHandler) GetRecipeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// --- ヘルパー関数 ---

// parseRecipeID はURLパラメータからレシピIDを取り出す。
// 数値に解釈できない場合はINVALID_RECIPE_IDを返す。
func parseRecipeID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewInvalidRecipeIDError(raw)
	}
	return id, nil
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation, model.ErrCodeInvalidImageFormat, model.ErrCodeInvalidRecipeID:
		return http.StatusBadRequest
	case model.ErrCodeImageNameConflict:
		return http.StatusConflict
	case model.ErrCodeRecipeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
