package recipe

import (
	"context"
	"errors"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_CreateThenIngredientsOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	sugar := testutil.CreateIngredient(t, f.db, "sugar", "g")
	eggs := testutil.CreateIngredient(t, f.db, "eggs", "pcs")
	breakfast := testutil.CreateTag(t, f.db, "breakfast")

	recipe := f.createRecipe(t, author, request("Pancakes", []uint{breakfast.ID},
		item(sugar.ID, 20), item(flour.ID, 200), item(eggs.ID, 2)))

	got, err := f.aggregator.IngredientsOf(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{flour.ID: 200, sugar.ID: 20, eggs.ID: 2}, amounts(got))
	assert.Equal(t, "sugar", got[0].Name)
	assert.Equal(t, "g", got[0].MeasurementUnit)

	tags, err := f.repo.GetRecipeTags(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, breakfast.ID, tags[0].ID)
	assert.Len(t, f.storage.Files, 1)
}

func TestComposer_CreateRejectsInvalidIngredients(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	lunch := testutil.CreateTag(t, f.db, "lunch")

	tests := []struct {
		name  string
		items []domain.RecipeIngredientRequest
		want  error
	}{
		{"empty", nil, domain.ErrEmptyCollection},
		{"duplicate same amount", []domain.RecipeIngredientRequest{item(flour.ID, 100), item(flour.ID, 100)}, domain.ErrDuplicateEntry},
		{"duplicate different amount", []domain.RecipeIngredientRequest{item(flour.ID, 100), item(flour.ID, 250)}, domain.ErrDuplicateEntry},
		{"zero amount", []domain.RecipeIngredientRequest{item(flour.ID, 0)}, domain.ErrInvalidAmount},
		{"negative amount", []domain.RecipeIngredientRequest{item(flour.ID, -5)}, domain.ErrInvalidAmount},
		{"unknown ingredient", []domain.RecipeIngredientRequest{item(9999, 5)}, domain.ErrUnknownReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.composer.Create(context.Background(), author.ID, request("Bread", []uint{lunch.ID}, tt.items...))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, f.count(t, &entities.Recipe{}))
	assert.Zero(t, f.count(t, &entities.RecipeIngredient{}))
	assert.Empty(t, f.storage.Files)
}

func TestComposer_CreateRejectsInvalidTags(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	lunch := testutil.CreateTag(t, f.db, "lunch")

	_, err := f.composer.Create(context.Background(), author.ID, request("Bread", []uint{}, item(flour.ID, 1)))
	assert.ErrorIs(t, err, domain.ErrEmptyCollection)

	_, err = f.composer.Create(context.Background(), author.ID, request("Bread", []uint{lunch.ID, lunch.ID}, item(flour.ID, 1)))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	_, err = f.composer.Create(context.Background(), author.ID, request("Bread", []uint{lunch.ID, 777}, item(flour.ID, 1)))
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestComposer_CreateRequiresImage(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	lunch := testutil.CreateTag(t, f.db, "lunch")

	req := request("Bread", []uint{lunch.ID}, item(flour.ID, 1))
	req.Image = ""
	_, err := f.composer.Create(context.Background(), author.ID, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	req.Image = "not an image"
	_, err = f.composer.Create(context.Background(), author.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

// failingTags breaks the last step of a composition so the earlier inserts
// of the same transaction have to roll back.
type failingTags struct {
	RecipeRepository
}

var errTagWrite = errors.New("tag write failed")

func (f failingTags) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return f.RecipeRepository.Transaction(ctx, func(tx RecipeRepository) error {
		return fn(failingTags{RecipeRepository: tx})
	})
}

func (f failingTags) AddRecipeTags(context.Context, uint, []uint) error {
	return errTagWrite
}

func TestComposer_CreateRollsBack(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	lunch := testutil.CreateTag(t, f.db, "lunch")

	composer := NewComposer(failingTags{RecipeRepository: f.repo}, f.engine, f.storage)
	_, err := composer.Create(context.Background(), author.ID, request("Bread", []uint{lunch.ID}, item(flour.ID, 500)))
	require.ErrorIs(t, err, errTagWrite)

	assert.Zero(t, f.count(t, &entities.Recipe{}))
	assert.Zero(t, f.count(t, &entities.RecipeIngredient{}))
	assert.Zero(t, f.count(t, &entities.RecipeTag{}))
	assert.Empty(t, f.storage.Files)
}

func TestComposer_UpdateRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	a := testutil.CreateIngredient(t, f.db, "apple", "pcs")
	b := testutil.CreateIngredient(t, f.db, "butter", "g")
	dessert := testutil.CreateTag(t, f.db, "dessert")
	autumn := testutil.CreateTag(t, f.db, "autumn")
	recipe := f.createRecipe(t, author, request("Pie", []uint{dessert.ID}, item(a.ID, 2)))

	composer := NewComposer(failingTags{RecipeRepository: f.repo}, f.engine, f.storage)
	_, err := composer.Update(ctx, recipe, request("Crumble", []uint{autumn.ID}, item(a.ID, 7), item(b.ID, 3)))
	require.ErrorIs(t, err, errTagWrite)

	stored, err := f.repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pie", stored.Name)
	assert.Equal(t, recipe.ImageKey, stored.ImageKey)

	got, err := f.aggregator.IngredientsOf(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{a.ID: 2}, amounts(got))

	tags, err := f.repo.GetRecipeTags(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, dessert.ID, tags[0].ID)

	require.Len(t, f.storage.Files, 1)
	assert.Contains(t, f.storage.Files, recipe.ImageKey)
	require.Len(t, f.storage.Deleted, 1)
	assert.NotEqual(t, recipe.ImageKey, f.storage.Deleted[0])
}

func TestComposer_ValidatesAttributes(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	a := testutil.CreateIngredient(t, f.db, "apple", "pcs")
	dessert := testutil.CreateTag(t, f.db, "dessert")

	req := request("", []uint{dessert.ID}, item(a.ID, 2))
	_, err := f.composer.Create(context.Background(), author.ID, req)
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	req = request("Pie", []uint{dessert.ID}, item(a.ID, 2))
	req.CookingTime = 0
	_, err = f.composer.Create(context.Background(), author.ID, req)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "cooking_time", fe.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Empty(t, f.storage.Files)
}

func TestComposer_UpdateReplacesSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	a := testutil.CreateIngredient(t, f.db, "apple", "pcs")
	b := testutil.CreateIngredient(t, f.db, "butter", "g")
	c := testutil.CreateIngredient(t, f.db, "cinnamon", "g")
	dessert := testutil.CreateTag(t, f.db, "dessert")
	autumn := testutil.CreateTag(t, f.db, "autumn")

	recipe := f.createRecipe(t, author, request("Pie", []uint{dessert.ID}, item(a.ID, 2)))

	_, err := f.composer.Update(ctx, recipe, request("Pie", []uint{dessert.ID}, item(a.ID, 2), item(b.ID, 3)))
	require.NoError(t, err)
	got, err := f.aggregator.IngredientsOf(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{a.ID: 2, b.ID: 3}, amounts(got))

	stored, err := f.repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	req := request("Apple pie", []uint{autumn.ID}, item(c.ID, 5), item(a.ID, 4))
	req.Image = ""
	updated, err := f.composer.Update(ctx, stored, req)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, updated.ID)
	assert.Equal(t, author.ID, updated.AuthorID)
	assert.Equal(t, "Apple pie", updated.Name)
	assert.Equal(t, stored.ImageURL, updated.ImageURL)

	got, err = f.aggregator.IngredientsOf(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{a.ID: 4, c.ID: 5}, amounts(got))
	assert.Equal(t, int64(2), f.count(t, &entities.RecipeIngredient{}))

	tags, err := f.repo.GetRecipeTags(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, autumn.ID, tags[0].ID)
}

func TestComposer_UpdateRequiresBothSets(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	a := testutil.CreateIngredient(t, f.db, "apple", "pcs")
	dessert := testutil.CreateTag(t, f.db, "dessert")
	recipe := f.createRecipe(t, author, request("Pie", []uint{dessert.ID}, item(a.ID, 2)))

	req := request("Pie", nil, item(a.ID, 2))
	_, err := f.composer.Update(context.Background(), recipe, req)
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "tags", fe.Field)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	req = request("Pie", []uint{dessert.ID})
	req.Ingredients = nil
	_, err = f.composer.Update(context.Background(), recipe, req)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "ingredients", fe.Field)
}

func TestComposer_UpdateReplacesImage(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "author")
	a := testutil.CreateIngredient(t, f.db, "apple", "pcs")
	dessert := testutil.CreateTag(t, f.db, "dessert")
	recipe := f.createRecipe(t, author, request("Pie", []uint{dessert.ID}, item(a.ID, 2)))

	updated, err := f.composer.Update(context.Background(), recipe, request("Pie", []uint{dessert.ID}, item(a.ID, 2)))
	require.NoError(t, err)
	assert.NotEqual(t, recipe.ImageKey, updated.ImageKey)
	assert.Equal(t, []string{recipe.ImageKey}, f.storage.Deleted)
	assert.Len(t, f.storage.Files, 1)
}
