package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessGetShoppingList    = "success get shopping list"
	MessageSuccessSendShoppingList   = "shopping list sent"
	MessageSuccessGetLink            = "success get short link"
	MessageNothingToExport           = "nothing to export"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList    = "failed to get shopping list"
	MessageFailedSendShoppingList   = "failed to send shopping list"
	MessageFailedGetLink            = "failed to get short link"
	MessageFailedResolveLink        = "failed to resolve short link"

	ErrRecipeNotFound = fmt.Errorf("recipe %w", ErrNotFound)
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id"`
		Amount int  `json:"amount"`
	}

	// RecipeRequest is shared by create and update. A nil Ingredients or Tags
	// slice means the field was absent from the payload.
	RecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
		Tags        []uint                    `json:"tags"`
		Image       string                    `json:"image"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"min=1"`
	}

	RecipeFilter struct {
		AuthorID         uint
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
		// ViewerID scopes the favorite and cart filters; zero disables them.
		ViewerID uint
	}

	RecipeIngredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               uint               `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
		CreatedAt        time.Time          `json:"created_at"`
	}

	ShortRecipe struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes    []Recipe   `json:"recipes"`
		Pagination Pagination `json:"pagination"`
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
