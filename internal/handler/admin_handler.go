package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/recipe"
)

// maxUploadMemory はmultipartフォーム解析時にメモリ上に保持する最大バイト数。
const maxUploadMemory = 10 << 20 // 10MB

// AdminRecipeServiceInterface は管理ハンドラーが必要とするサービスインターフェース。
type AdminRecipeServiceInterface interface {
	// ListAdmin は管理画面向けのレシピ一覧を新着順で返す。
	ListAdmin(ctx context.Context, page int) (*recipe.ListPage, error)
	// GetAggregate はレシピ集約（食材・手順込み）を返す。
	GetAggregate(ctx context.Context, id int64) (*model.RecipeDetail, error)
	// Create はレシピ集約を新規作成する。
	Create(ctx context.Context, form recipe.Form, upload *model.UploadedFile) (int64, error)
	// Edit はレシピ集約を全置換で編集する。
	Edit(ctx context.Context, id int64, form recipe.Form, upload *model.UploadedFile) error
	// Delete はレシピ集約と画像を削除する。
	Delete(ctx context.Context, id int64) error
}

// AdminHandler はレシピ管理（作成・編集・削除）のHTTPハンドラー。
// 全ルートが管理者ロールを要求する。
type AdminHandler struct {
	service AdminRecipeServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminRecipeServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// createRecipeResponse はレシピ作成のAPIレスポンス。
type createRecipeResponse struct {
	ID int64 `json:"id"`
}

// ListRecipes は管理画面向けレシピ一覧を返す。
// GET /admin/recettes?page=
func (h *AdminHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	result, err := h.service.ListAdmin(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetRecipe は編集フォーム用にレシピ集約を返す。
// GET /admin/recettes/:id
func (h *AdminHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.service.GetAggregate(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// CreateRecipe はmultipartフォームからレシピ集約を新規作成する。
// POST /admin/recettes
func (h *AdminHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	form, upload, err := parseRecipeForm(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	id, err := h.service.Create(r.Context(), form, upload)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createRecipeResponse{ID: id})
}

// EditRecipe はmultipartフォームからレシピ集約を全置換で編集する。
// POST /admin/recettes/:id
func (h *AdminHandler) EditRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	form, upload, err := parseRecipeForm(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.Edit(r.Context(), id, form, upload); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteRecipe はレシピ集約と画像を削除する。
// DELETE /admin/recettes/:id
func (h *AdminHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecipeID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseRecipeForm はmultipartフォームをレシピ入力フォームと
// アップロードファイルに展開する。
//
// 画像ファイルは省略可能で、省略時はnilを返す（既存画像の維持）。
func parseRecipeForm(r *http.Request) (recipe.Form, *model.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return recipe.Form{}, nil, model.NewValidationError("フォームの解析に失敗しました。")
	}

	form := recipe.Form{
		Titre:               r.FormValue("titre"),
		Description:         r.FormValue("description"),
		Categorie:           r.FormValue("categorie"),
		TempsPreparation:    r.FormValue("tempsPreparation"),
		Difficulte:          r.FormValue("difficulte"),
		PortionsDefaut:      r.FormValue("portions"),
		IngredientNoms:      r.MultipartForm.Value["ingredientNom"],
		IngredientQuantites: r.MultipartForm.Value["ingredientQuantite"],
		IngredientUnites:    r.MultipartForm.Value["ingredientUnite"],
		Instructions:        r.MultipartForm.Value["instructions"],
	}

	upload, err := readUpload(r)
	if err != nil {
		return recipe.Form{}, nil, err
	}

	return form, upload, nil
}

// readUpload は画像ファイルフィールドを読み取る。未添付の場合はnilを返す。
func readUpload(r *http.Request) (*model.UploadedFile, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, model.NewValidationError("画像ファイルの読み取りに失敗しました。")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, model.NewValidationError("画像ファイルの読み取りに失敗しました。")
	}

	return &model.UploadedFile{
		Name: header.Filename,
		Data: data,
	}, nil
}
