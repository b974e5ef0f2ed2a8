package main

import (
	"context"
	"strconv"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/ingredient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteIngredient(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "chef")
	flour := testutil.CreateIngredient(t, db, "Flour", "g")
	sugar := testutil.CreateIngredient(t, db, "Sugar", "g")

	recipe := &entities.Recipe{AuthorID: author.ID, Name: "Bread", Text: "Bake.", CookingTime: 30}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Create(&entities.RecipeIngredient{RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 200}).Error)

	svc := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	ctx := context.Background()

	assert.Error(t, deleteIngredient(ctx, svc, "abc"))
	assert.Error(t, deleteIngredient(ctx, svc, "0"))
	assert.ErrorIs(t, deleteIngredient(ctx, svc, "999"), domain.ErrNotFound)
	assert.ErrorIs(t, deleteIngredient(ctx, svc, strconv.FormatUint(uint64(flour.ID), 10)), domain.ErrIngredientInUse)

	require.NoError(t, deleteIngredient(ctx, svc, strconv.FormatUint(uint64(sugar.ID), 10)))
	_, err := svc.GetIngredient(ctx, sugar.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
