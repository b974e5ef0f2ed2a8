package recipe

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/policy"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"
	"foodgram/pkg/validation"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testImage = "data:image/png;base64,aGVsbG8="

type fixture struct {
	db         *gorm.DB
	repo       RecipeRepository
	users      user.UserRepository
	engine     *validation.Engine
	storage    *testutil.MemoryStorage
	mailer     *testutil.MemoryMailer
	composer   *Composer
	aggregator *Aggregator
	svc        RecipeService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	users := user.NewUserRepository(db)
	engine := validation.NewEngine(validation.Lookups{
		Ingredients: ingredient.NewIngredientRepository(db),
		Tags:        tag.NewTagRepository(db),
		Memberships: repo,
		Follows:     users,
	})
	p, err := policy.NewPolicy()
	require.NoError(t, err)

	store := testutil.NewMemoryStorage()
	mailer := &testutil.MemoryMailer{}
	composer := NewComposer(repo, engine, store)
	aggregator := NewAggregator(repo)

	return fixture{
		db:         db,
		repo:       repo,
		users:      users,
		engine:     engine,
		storage:    store,
		mailer:     mailer,
		composer:   composer,
		aggregator: aggregator,
		svc:        NewRecipeService(repo, users, composer, aggregator, engine, p, mailer, "https://foodgram.test/"),
	}
}

func request(name string, tags []uint, ingredients ...domain.RecipeIngredientRequest) domain.RecipeRequest {
	return domain.RecipeRequest{
		Ingredients: ingredients,
		Tags:        tags,
		Image:       testImage,
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 30,
	}
}

func item(id uint, amount int) domain.RecipeIngredientRequest {
	return domain.RecipeIngredientRequest{ID: id, Amount: amount}
}

func (f fixture) createRecipe(t *testing.T, author *entities.User, req domain.RecipeRequest) *entities.Recipe {
	t.Helper()
	recipe, err := f.composer.Create(context.Background(), author.ID, req)
	require.NoError(t, err)
	return recipe
}

func amounts(rows []domain.RecipeIngredient) map[uint]int {
	res := make(map[uint]int, len(rows))
	for _, r := range rows {
		res[r.ID] = r.Amount
	}
	return res
}

func (f fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
