package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/repository"
	"github.com/ilyassman/super-recipe-roulette/internal/search"
)

// ImageStore はレシピ画像の保存・削除に必要なインターフェース。
// imagestore.Storeの部分集合として定義する。
type ImageStore interface {
	// Save はアップロードを検証して保存し、保存後のファイル名を返す。
	// uploadがnilの場合はpreviousを正規化して返す。
	Save(upload *model.UploadedFile, previous *string) (*string, error)
	// Remove は画像を削除する。シード画像は削除せず、失敗はログで握りつぶす。
	Remove(name *string)
}

// Sanitizer はユーザー入力テキストのサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Metrics はサービス層が記録するメトリクスの部分インターフェース。
type Metrics interface {
	RecordRecipeCreated()
	RecordRecipeUpdated()
	RecordRecipeDeleted()
	RecordSearch(resultCount int)
	RecordSearchLatency(duration time.Duration)
}

// Service はレシピ集約のサービス層。
//
// 書き込みは「検証 → 画像保存 → DBトランザクション → 画像後始末」の順で
// 進行する。画像保存の失敗はDB書き込みより前に操作を中断し、
// DB書き込みの失敗は新規保存ファイルの補償削除を伴う。
// 旧画像の削除はコミット成功後にのみ行う。
type Service struct {
	repo      repository.RecipeRepository
	images    ImageStore
	sanitizer Sanitizer
	metrics   Metrics
	logger    *slog.Logger
}

// NewService はServiceを生成する。
func NewService(repo repository.RecipeRepository, images ImageStore, sanitizer Sanitizer, m Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		images:    images,
		sanitizer: sanitizer,
		metrics:   m,
		logger:    logger,
	}
}

// ListPage は管理画面向けのレシピ一覧ページを表す。
type ListPage struct {
	Recipes    []model.Recipe    `json:"recipes"`
	Pagination search.Pagination `json:"pagination"`
}

// Detail はレシピ詳細とおすすめレシピをまとめた応答を表す。
type Detail struct {
	model.RecipeDetail
	Suggestions []model.Recipe `json:"suggestions"`
}

// suggestionCount は詳細画面に添えるおすすめレシピの件数。
const suggestionCount = 3

// Get は指定IDのレシピを返す。見つからない場合はRECIPE_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, model.NewRecipeNotFoundError(id)
	}
	return recipe, nil
}

// GetDetail はレシピ集約とおすすめレシピを返す。
// おすすめの取得失敗は詳細表示を妨げない。
func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, model.NewRecipeNotFoundError(id)
	}

	suggestions, err := s.repo.ListSuggestions(ctx, id, suggestionCount)
	if err != nil {
		s.logger.Error("おすすめレシピの取得に失敗しました",
			slog.Int64("recipe_id", id),
			slog.String("error", err.Error()),
		)
		suggestions = []model.Recipe{}
	}

	return &Detail{
		RecipeDetail: *detail,
		Suggestions:  suggestions,
	}, nil
}

// GetAggregate はレシピ集約のみを返す。管理画面の編集モーダル用。
func (s *Service) GetAggregate(ctx context.Context, id int64) (*model.RecipeDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, model.NewRecipeNotFoundError(id)
	}
	return detail, nil
}

// ListAdmin は管理画面向けのレシピ一覧を新着順・10件単位で返す。
func (s *Service) ListAdmin(ctx context.Context, page int) (*ListPage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	p := search.Paginate(page, total, search.AdminPageLimit)

	recipes, err := s.repo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}

	return &ListPage{Recipes: recipes, Pagination: p}, nil
}

// Search は検索APIのフィルタ検索を9件単位で返す。
func (s *Service) Search(ctx context.Context, f search.Filters, page int) (*ListPage, error) {
	// 件数が先に必要なため、COUNTを取得してからページを取得する。
	// 2つのクエリは同一のフィルタパラメータを共有する。
	p := search.Paginate(page, 0, search.SearchPageLimit)

	start := time.Now()
	recipes, total, err := s.repo.Search(ctx, f, p.Limit, p.Offset)
	s.metrics.RecordSearchLatency(time.Since(start))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSearch(total)

	return &ListPage{
		Recipes:    recipes,
		Pagination: search.Paginate(page, total, search.SearchPageLimit),
	}, nil
}

// Create はレシピ集約を新規作成し、新規IDを返す。
//
// 画像はDBトランザクションの前に保存され、DB書き込みが失敗した場合は
// 新規保存ファイルを補償削除する。
func (s *Service) Create(ctx context.Context, form Form, upload *model.UploadedFile) (int64, error) {
	input, ingredients, instructions, err := s.normalizeForm(form)
	if err != nil {
		return 0, err
	}

	image, err := s.images.Save(upload, nil)
	if err != nil {
		return 0, err
	}
	input.Image = image

	recipeID, err := s.repo.CreateAggregate(ctx, input, ingredients, instructions)
	if err != nil {
		// DB書き込み失敗時は新規保存した画像を残さない
		if upload != nil {
			s.images.Remove(image)
		}
		return 0, fmt.Errorf("レシピ集約の作成に失敗しました: %w", err)
	}

	s.metrics.RecordRecipeCreated()
	s.logger.Info("レシピを作成しました",
		slog.Int64("recipe_id", recipeID),
		slog.String("titre", input.Titre),
	)

	return recipeID, nil
}

// Edit はレシピ集約を全置換で編集する。
//
// 書き込みの順序:
//  1. 入力検証（失敗時は副作用なし）
//  2. 新規画像の検証・保存（失敗時はDB未変更のまま中断）
//  3. 集約の置換トランザクション（失敗時は新規画像を補償削除）
//  4. コミット成功後にのみ、置き換えられた旧画像を削除（シード画像は除く）
func (s *Service) Edit(ctx context.Context, id int64, form Form, upload *model.UploadedFile) error {
	input, ingredients, instructions, err := s.normalizeForm(form)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return model.NewRecipeNotFoundError(id)
	}

	image, err := s.images.Save(upload, existing.Image)
	if err != nil {
		return err
	}
	input.Image = image

	oldImage := existing.Image

	if err := s.repo.ReplaceAggregate(ctx, id, input, ingredients, instructions); err != nil {
		// 新規アップロード分だけを補償削除する。旧画像はまだ正となるため残す。
		if upload != nil && !sameImage(image, oldImage) {
			s.images.Remove(image)
		}
		return err
	}

	// コミット成功後: 新規画像が旧画像を置き換えた場合のみ旧画像を削除する
	if upload != nil && oldImage != nil && !sameImage(image, oldImage) {
		s.images.Remove(oldImage)
	}

	s.metrics.RecordRecipeUpdated()
	s.logger.Info("レシピを編集しました",
		slog.Int64("recipe_id", id),
		slog.String("titre", input.Titre),
	)

	return nil
}

// Delete はレシピ集約を削除し、成功後に画像ファイルを削除する。
// シード画像は削除されない。
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return model.NewRecipeNotFoundError(id)
	}

	if err := s.repo.DeleteAggregate(ctx, id); err != nil {
		return err
	}

	s.images.Remove(existing.Image)

	s.metrics.RecordRecipeDeleted()
	s.logger.Info("レシピを削除しました",
		slog.Int64("recipe_id", id),
	)

	return nil
}

// normalizeForm はフォームを検証・正規化し、サニタイズ済みの
// スカラー入力・食材行・手順を返す。
func (s *Service) normalizeForm(form Form) (model.RecipeInput, []model.IngredientLine, []string, error) {
	input, err := parseInput(form)
	if err != nil {
		return model.RecipeInput{}, nil, nil, err
	}

	input.Titre = s.sanitizer.Sanitize(input.Titre)
	input.Description = s.sanitizer.Sanitize(input.Description)

	ingredients := extractIngredients(form.IngredientNoms, form.IngredientQuantites, form.IngredientUnites)
	for i := range ingredients {
		ingredients[i].Nom = s.sanitizer.Sanitize(ingredients[i].Nom)
	}

	instructions := extractInstructions(form.Instructions)
	for i := range instructions {
		instructions[i] = s.sanitizer.Sanitize(instructions[i])
	}

	return input, ingredients, instructions, nil
}

// sameImage は正規化済み画像参照同士の同一性を判定する。
func sameImage(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
