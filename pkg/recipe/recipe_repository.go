package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/shoppinglist"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		// Transaction runs fn against a repository bound to one transaction.
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uint) (int64, error)

		GetRecipeIngredients(ctx context.Context, recipeID uint) ([]*entities.RecipeIngredient, error)
		AddRecipeIngredients(ctx context.Context, rows []*entities.RecipeIngredient) error
		UpdateRecipeIngredientAmount(ctx context.Context, recipeID, ingredientID uint, amount int) error
		DeleteRecipeIngredients(ctx context.Context, recipeID uint, ingredientIDs []uint) error

		GetRecipeTags(ctx context.Context, recipeID uint) ([]*entities.Tag, error)
		AddRecipeTags(ctx context.Context, recipeID uint, tagIDs []uint) error
		DeleteRecipeTags(ctx context.Context, recipeID uint, tagIDs []uint) error

		AddMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) error
		RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) error
		HasMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) (bool, error)
		MembershipRecipeIDs(ctx context.Context, kind domain.MembershipKind, userID uint, recipeIDs []uint) (map[uint]struct{}, error)
		CountMemberships(ctx context.Context, kind domain.MembershipKind, userID uint) (int64, error)

		GetShoppingCartItems(ctx context.Context, userID uint) ([]shoppinglist.Item, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Author").Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("name", "text", "image_url", "image_key", "cooking_time", "updated_at").
		Updates(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe clears every row owned by the recipe before the recipe itself.
// The cascade foreign keys cover the same rows.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{
			&entities.RecipeIngredient{},
			&entities.RecipeTag{},
			&entities.Favorite{},
			&entities.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entities.Recipe{})

		if filter.AuthorID != 0 {
			query = query.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			query = query.Where("recipes.id IN (?)", r.db.
				Model(&entities.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
		}
		if filter.ViewerID != 0 && filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", r.db.
				Model(&entities.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", filter.ViewerID))
		}
		if filter.ViewerID != 0 && filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", r.db.
				Model(&entities.ShoppingCartEntry{}).
				Select("recipe_id").
				Where("user_id = ?", filter.ViewerID))
		}
		return query
	}

	if err := base().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Preload("Author").
		Order("recipes.created_at desc").
		Order("recipes.id desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipesByAuthor returns the newest recipes first. A non-positive limit
// returns all of them.
func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) GetRecipeIngredients(ctx context.Context, recipeID uint) ([]*entities.RecipeIngredient, error) {
	var rows []*entities.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRepository) AddRecipeIngredients(ctx context.Context, rows []*entities.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit("Recipe", "Ingredient").Create(&rows).Error; err != nil {
		return translateJoinError("ingredients", err)
	}
	return nil
}

func (r *recipeRepository) UpdateRecipeIngredientAmount(ctx context.Context, recipeID, ingredientID uint, amount int) error {
	res := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Where("recipe_id = ? AND ingredient_id = ?", recipeID, ingredientID).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewFieldError("ingredients", ingredientID, domain.ErrNotFound)
	}
	return nil
}

func (r *recipeRepository) DeleteRecipeIngredients(ctx context.Context, recipeID uint, ingredientIDs []uint) error {
	if len(ingredientIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND ingredient_id IN ?", recipeID, ingredientIDs).
		Delete(&entities.RecipeIngredient{}).Error
}

func (r *recipeRepository) GetRecipeTags(ctx context.Context, recipeID uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).
		Select("tags.*").
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id = ?", recipeID).
		Order("recipe_tags.id asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *recipeRepository) AddRecipeTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]entities.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, entities.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := r.db.WithContext(ctx).Omit("Recipe", "Tag").Create(&rows).Error; err != nil {
		return translateJoinError("tags", err)
	}
	return nil
}

func (r *recipeRepository) DeleteRecipeTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND tag_id IN ?", recipeID, tagIDs).
		Delete(&entities.RecipeTag{}).Error
}

func (r *recipeRepository) AddMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) error {
	var row any
	switch kind {
	case domain.MembershipFavorite:
		row = &entities.Favorite{UserID: userID, RecipeID: recipeID}
	case domain.MembershipShoppingCart:
		row = &entities.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	default:
		return unknownKind(kind)
	}

	if err := r.db.WithContext(ctx).Omit("User", "Recipe").Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewFieldError(string(kind), recipeID, domain.ErrDuplicateEntry)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func (r *recipeRepository) RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) error {
	model, err := membershipModel(kind)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewFieldError(string(kind), recipeID, domain.ErrNotFound)
	}
	return nil
}

func (r *recipeRepository) HasMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) (bool, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) MembershipRecipeIDs(ctx context.Context, kind domain.MembershipKind, userID uint, recipeIDs []uint) (map[uint]struct{}, error) {
	found := make(map[uint]struct{}, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return found, nil
	}
	model, err := membershipModel(kind)
	if err != nil {
		return nil, err
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		found[id] = struct{}{}
	}
	return found, nil
}

func (r *recipeRepository) CountMemberships(ctx context.Context, kind domain.MembershipKind, userID uint) (int64, error) {
	model, err := membershipModel(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetShoppingCartItems returns one item per ingredient row of every recipe in
// the user's cart, unaggregated.
func (r *recipeRepository) GetShoppingCartItems(ctx context.Context, userID uint) ([]shoppinglist.Item, error) {
	var items []shoppinglist.Item
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartEntry{}).
		Select(
			"recipe_ingredients.recipe_id",
			"recipe_ingredients.ingredient_id",
			"ingredients.name",
			"ingredients.measurement_unit",
			"recipe_ingredients.amount",
		).
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Order("recipe_ingredients.id asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func membershipModel(kind domain.MembershipKind) (any, error) {
	switch kind {
	case domain.MembershipFavorite:
		return &entities.Favorite{}, nil
	case domain.MembershipShoppingCart:
		return &entities.ShoppingCartEntry{}, nil
	default:
		return nil, unknownKind(kind)
	}
}

func unknownKind(kind domain.MembershipKind) error {
	return fmt.Errorf("unknown membership kind %q", kind)
}

func translateJoinError(field string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewFieldError(field, nil, domain.ErrDuplicateEntry)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewFieldError(field, nil, domain.ErrUnknownReference)
	default:
		return err
	}
}
