package favorite

import (
	"context"
	"errors"
	"testing"

	"github.com/ilyassman/super-recipe-roulette/internal/model"
	"github.com/ilyassman/super-recipe-roulette/internal/search"
)

// mockFavoriteRepo は関数フィールドで挙動を差し替えるモック。
type mockFavoriteRepo struct {
	existsFn            func(ctx context.Context, userID, recipeID int64) (bool, error)
	createFn            func(ctx context.Context, userID, recipeID int64) error
	deleteFn            func(ctx context.Context, userID, recipeID int64) error
	listRecipesByUserFn func(ctx context.Context, userID int64) ([]model.Recipe, error)
}

func (m *mockFavoriteRepo) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, recipeID)
	}
	return false, nil
}

func (m *mockFavoriteRepo) Create(ctx context.Context, userID, recipeID int64) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, recipeID)
	}
	return nil
}

func (m *mockFavoriteRepo) Delete(ctx context.Context, userID, recipeID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, recipeID)
	}
	return nil
}

func (m *mockFavoriteRepo) ListRecipesByUser(ctx context.Context, userID int64) ([]model.Recipe, error) {
	if m.listRecipesByUserFn != nil {
		return m.listRecipesByUserFn(ctx, userID)
	}
	return nil, nil
}

// mockRecipeRepo はFindByIDだけを差し替える。他は未使用。
type mockRecipeRepo struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Recipe, error)
}

func (m *mockRecipeRepo) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRecipeRepo) FindDetailByID(ctx context.Context, id int64) (*model.RecipeDetail, error) {
	return nil, nil
}

func (m *mockRecipeRepo) List(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepo) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockRecipeRepo) Search(ctx context.Context, f search.Filters, limit, offset int) ([]model.Recipe, int, error) {
	return nil, 0, nil
}

func (m *mockRecipeRepo) ListSuggestions(ctx context.Context, excludeID int64, limit int) ([]model.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepo) CreateAggregate(ctx context.Context, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) (int64, error) {
	return 0, nil
}

func (m *mockRecipeRepo) ReplaceAggregate(ctx context.Context, id int64, input model.RecipeInput, ingredients []model.IngredientLine, instructions []string) error {
	return nil
}

func (m *mockRecipeRepo) DeleteAggregate(ctx context.Context, id int64) error {
	return nil
}

func existingRecipe() *mockRecipeRepo {
	return &mockRecipeRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Recipe, error) {
			return &model.Recipe{ID: id}, nil
		},
	}
}

func TestToggle_RecipeNotFound(t *testing.T) {
	svc := NewService(&mockFavoriteRepo{}, &mockRecipeRepo{})

	_, err := svc.Toggle(context.Background(), 1, 99)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeRecipeNotFound {
		t.Errorf("Toggle() error = %v, want RECIPE_NOT_FOUND", err)
	}
}

func TestToggle_CreatesWhenAbsent(t *testing.T) {
	created := false
	favRepo := &mockFavoriteRepo{
		createFn: func(ctx context.Context, userID, recipeID int64) error {
			created = true
			if userID != 1 || recipeID != 5 {
				t.Errorf("Create(%d, %d), want (1, 5)", userID, recipeID)
			}
			return nil
		},
		deleteFn: func(ctx context.Context, userID, recipeID int64) error {
			t.Error("未登録状態でDeleteが呼ばれた")
			return nil
		},
	}
	svc := NewService(favRepo, existingRecipe())

	favori, err := svc.Toggle(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !favori {
		t.Error("Toggle() = false, want true")
	}
	if !created {
		t.Error("Createが呼ばれていない")
	}
}

func TestToggle_DeletesWhenPresent(t *testing.T) {
	deleted := false
	favRepo := &mockFavoriteRepo{
		existsFn: func(ctx context.Context, userID, recipeID int64) (bool, error) {
			return true, nil
		},
		deleteFn: func(ctx context.Context, userID, recipeID int64) error {
			deleted = true
			return nil
		},
		createFn: func(ctx context.Context, userID, recipeID int64) error {
			t.Error("登録済み状態でCreateが呼ばれた")
			return nil
		},
	}
	svc := NewService(favRepo, existingRecipe())

	favori, err := svc.Toggle(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if favori {
		t.Error("Toggle() = true, want false")
	}
	if !deleted {
		t.Error("Deleteが呼ばれていない")
	}
}

func TestToggle_CreateFailure(t *testing.T) {
	favRepo := &mockFavoriteRepo{
		createFn: func(ctx context.Context, userID, recipeID int64) error {
			return errors.New("unique violation")
		},
	}
	svc := NewService(favRepo, existingRecipe())

	if _, err := svc.Toggle(context.Background(), 1, 5); err == nil {
		t.Error("Toggle() error = nil, want error")
	}
}

func TestList_ReturnsUserFavorites(t *testing.T) {
	favRepo := &mockFavoriteRepo{
		listRecipesByUserFn: func(ctx context.Context, userID int64) ([]model.Recipe, error) {
			if userID != 3 {
				t.Errorf("userID = %d, want 3", userID)
			}
			return []model.Recipe{{ID: 10}, {ID: 7}}, nil
		},
	}
	svc := NewService(favRepo, &mockRecipeRepo{})

	recipes, err := svc.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recipes) != 2 || recipes[0].ID != 10 {
		t.Errorf("recipes = %+v", recipes)
	}
}
