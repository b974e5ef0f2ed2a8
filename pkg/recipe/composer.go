package recipe

import (
	"context"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Composer writes a recipe together with its ingredient rows and tag links.
// Every write validates first and then runs in a single transaction.
type Composer struct {
	repo      RecipeRepository
	fields    *validator.Validate
	validator *validation.Engine
	storage   storage.Storage
}

func NewComposer(repo RecipeRepository, validator *validation.Engine, storage storage.Storage) *Composer {
	return &Composer{
		repo:      repo,
		fields:    utils.NewValidator(),
		validator: validator,
		storage:   storage,
	}
}

func (c *Composer) Create(ctx context.Context, authorID uint, req domain.RecipeRequest) (recipe *entities.Recipe, err error) {
	defer func() {
		metrics.RecipeCompositions.WithLabelValues("create", metrics.Result(err)).Inc()
	}()

	if err := c.validate(ctx, req); err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, domain.NewFieldError("image", nil, domain.ErrMissingRequiredField)
	}
	img, err := utils.DecodeBase64Image(req.Image)
	if err != nil {
		return nil, domain.NewFieldError("image", nil, err)
	}

	url, key, err := c.upload(ctx, authorID, img)
	if err != nil {
		return nil, err
	}

	recipe = &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    url,
		ImageKey:    key,
		CookingTime: req.CookingTime,
	}

	err = c.repo.Transaction(ctx, func(tx RecipeRepository) error {
		if err := tx.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		if err := tx.AddRecipeIngredients(ctx, ingredientRows(recipe.ID, req.Ingredients)); err != nil {
			return err
		}
		return tx.AddRecipeTags(ctx, recipe.ID, req.Tags)
	})
	if err != nil {
		logging.Error().Err(err).Uint("user_id", authorID).Msg("failed to create recipe")
		c.discard(ctx, key)
		return nil, err
	}

	logging.Info().Uint("recipe_id", recipe.ID).Uint("user_id", authorID).Msg("recipe created")
	return recipe, nil
}

// Update replaces the attributes and both association sets of recipe. The
// ingredient and tag sets are diffed against the stored ones so untouched rows
// keep their identity.
func (c *Composer) Update(ctx context.Context, recipe *entities.Recipe, req domain.RecipeRequest) (_ *entities.Recipe, err error) {
	defer func() {
		metrics.RecipeCompositions.WithLabelValues("update", metrics.Result(err)).Inc()
	}()

	if req.Ingredients == nil {
		return nil, domain.NewFieldError("ingredients", nil, domain.ErrMissingRequiredField)
	}
	if req.Tags == nil {
		return nil, domain.NewFieldError("tags", nil, domain.ErrMissingRequiredField)
	}
	if err := c.validate(ctx, req); err != nil {
		return nil, err
	}

	updated := *recipe
	updated.Name = req.Name
	updated.Text = req.Text
	updated.CookingTime = req.CookingTime

	var newKey string
	if req.Image != "" {
		img, err := utils.DecodeBase64Image(req.Image)
		if err != nil {
			return nil, domain.NewFieldError("image", nil, err)
		}
		if updated.ImageURL, newKey, err = c.upload(ctx, recipe.AuthorID, img); err != nil {
			return nil, err
		}
		updated.ImageKey = newKey
	}

	err = c.repo.Transaction(ctx, func(tx RecipeRepository) error {
		if err := tx.UpdateRecipe(ctx, &updated); err != nil {
			return err
		}
		if err := replaceIngredients(ctx, tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(ctx, tx, recipe.ID, req.Tags)
	})
	if err != nil {
		logging.Error().Err(err).Uint("recipe_id", recipe.ID).Msg("failed to update recipe")
		c.discard(ctx, newKey)
		return nil, err
	}

	if newKey != "" {
		c.discard(ctx, recipe.ImageKey)
	}
	logging.Info().Uint("recipe_id", recipe.ID).Msg("recipe updated")
	return &updated, nil
}

// validate checks the request attributes and then both association sets.
// Callers resolve the recipe and its author before calling it.
func (c *Composer) validate(ctx context.Context, req domain.RecipeRequest) error {
	if err := c.fields.Struct(req); err != nil {
		return utils.ValidationError(err)
	}
	if err := c.validator.ValidateIngredients(ctx, req.Ingredients); err != nil {
		return err
	}
	return c.validator.ValidateTags(ctx, req.Tags)
}

func (c *Composer) upload(ctx context.Context, authorID uint, img utils.Image) (string, string, error) {
	key := fmt.Sprintf("recipes/%d/%s.%s", authorID, uuid.NewString(), img.Extension)
	url, err := c.storage.UploadFile(ctx, key, img.Content, img.ContentType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

func (c *Composer) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := c.storage.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

func ingredientRows(recipeID uint, items []domain.RecipeIngredientRequest) []*entities.RecipeIngredient {
	rows := make([]*entities.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, &entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return rows
}

func replaceIngredients(ctx context.Context, tx RecipeRepository, recipeID uint, items []domain.RecipeIngredientRequest) error {
	current, err := tx.GetRecipeIngredients(ctx, recipeID)
	if err != nil {
		return err
	}

	stored := make(map[uint]int, len(current))
	for _, row := range current {
		stored[row.IngredientID] = row.Amount
	}

	wanted := make(map[uint]struct{}, len(items))
	var added []domain.RecipeIngredientRequest
	for _, item := range items {
		wanted[item.ID] = struct{}{}
		amount, ok := stored[item.ID]
		switch {
		case !ok:
			added = append(added, item)
		case amount != item.Amount:
			if err := tx.UpdateRecipeIngredientAmount(ctx, recipeID, item.ID, item.Amount); err != nil {
				return err
			}
		}
	}

	var removed []uint
	for _, row := range current {
		if _, ok := wanted[row.IngredientID]; !ok {
			removed = append(removed, row.IngredientID)
		}
	}

	if err := tx.DeleteRecipeIngredients(ctx, recipeID, removed); err != nil {
		return err
	}
	return tx.AddRecipeIngredients(ctx, ingredientRows(recipeID, added))
}

func replaceTags(ctx context.Context, tx RecipeRepository, recipeID uint, ids []uint) error {
	current, err := tx.GetRecipeTags(ctx, recipeID)
	if err != nil {
		return err
	}

	stored := make(map[uint]struct{}, len(current))
	for _, t := range current {
		stored[t.ID] = struct{}{}
	}

	wanted := make(map[uint]struct{}, len(ids))
	var added []uint
	for _, id := range ids {
		wanted[id] = struct{}{}
		if _, ok := stored[id]; !ok {
			added = append(added, id)
		}
	}

	var removed []uint
	for _, t := range current {
		if _, ok := wanted[t.ID]; !ok {
			removed = append(removed, t.ID)
		}
	}

	if err := tx.DeleteRecipeTags(ctx, recipeID, removed); err != nil {
		return err
	}
	return tx.AddRecipeTags(ctx, recipeID, added)
}
