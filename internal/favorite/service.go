// Package favorite はお気に入り管理のドメインロジックを提供する。
package favorite

import (
	"context"
	"fmt"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/repository"
)

// Service はお気に入り管理のサービス層。
// お気に入りはバージョン管理されず、トグル操作で作成・削除される。
type Service struct {
	favRepo    repository.FavoriteRepository
	recipeRepo repository.RecipeRepository
}

// NewService はServiceを生成する。
func NewService(favRepo repository.FavoriteRepository, recipeRepo repository.RecipeRepository) *Service {
	return &Service{
		favRepo:    favRepo,
		recipeRepo: recipeRepo,
	}
}

// Toggle は(ユーザー, レシピ)のお気に入りを反転し、反転後の状態を返す。
// trueは登録済み、falseは解除済みを意味する。
// レシピが存在しない場合はRECIPE_NOT_FOUNDを返す。
func (s *Service) Toggle(ctx context.Context, userID, recipeID int64) (bool, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return false, err
	}
	if recipe == nil {
		return false, model.NewRecipeNotFoundError(recipeID)
	}

	exists, err := s.favRepo.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.favRepo.Delete(ctx, userID, recipeID); err != nil {
			return false, fmt.Errorf("お気に入りの解除に失敗しました: %w", err)
		}
		return false, nil
	}

	if err := s.favRepo.Create(ctx, userID, recipeID); err != nil {
		return false, fmt.Errorf("お気に入りの登録に失敗しました: %w", err)
	}
	return true, nil
}

// List はユーザーのお気に入りレシピを新着順で返す。
func (s *Service) List(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.favRepo.ListRecipesByUser(ctx, userID)
}
