package handlers

import (
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"

	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddShoppingCart(c *fiber.Ctx) error
		RemoveShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
		SendShoppingCart(c *fiber.Ctx) error
		GetLink(c *fiber.Ctx) error
		ResolveShortLink(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, limit := pagination(c)
	filter := domain.RecipeFilter{
		AuthorID:         queryUint(c, "author"),
		TagSlugs:         queryAll(c, "tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}

	res, err := h.recipeService.GetRecipes(c.Context(), middleware.Identity(c), filter, page, limit)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipeDetail, err)
	}

	res, err := h.recipeService.GetRecipe(c.Context(), middleware.Identity(c), id)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	var req domain.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), middleware.Identity(c), req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateRecipe, err)
	}
	var req domain.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), middleware.Identity(c), id, req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), middleware.Identity(c), id); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteRecipe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.toggle(c, domain.MembershipFavorite, domain.IntentAdd, domain.MessageSuccessAddFavorite, domain.MessageFailedAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.toggle(c, domain.MembershipFavorite, domain.IntentRemove, domain.MessageSuccessRemoveFavorite, domain.MessageFailedRemoveFavorite)
}

func (h *recipeHandler) AddShoppingCart(c *fiber.Ctx) error {
	return h.toggle(c, domain.MembershipShoppingCart, domain.IntentAdd, domain.MessageSuccessAddShoppingCart, domain.MessageFailedAddShoppingCart)
}

func (h *recipeHandler) RemoveShoppingCart(c *fiber.Ctx) error {
	return h.toggle(c, domain.MembershipShoppingCart, domain.IntentRemove, domain.MessageSuccessRemoveShoppingCart, domain.MessageFailedRemoveShoppingCart)
}

func (h *recipeHandler) toggle(c *fiber.Ctx, kind domain.MembershipKind, intent domain.Intent, success, failed string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, failed, err)
	}

	res, err := h.recipeService.ToggleMembership(c.Context(), middleware.Identity(c), kind, id, intent)
	if err != nil {
		return presenters.Fail(c, failed, err)
	}
	if intent == domain.IntentRemove {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, success)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	format, err := shoppinglist.ParseFormat(c.Query("format"))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetShoppingList, err)
	}

	export, err := h.recipeService.DownloadShoppingList(c.Context(), middleware.Identity(c), format)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageNothingToExport, err)
		}
		return presenters.Fail(c, domain.MessageFailedGetShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	return c.Status(fiber.StatusOK).Send(export.Body)
}

func (h *recipeHandler) SendShoppingCart(c *fiber.Ctx) error {
	if err := h.recipeService.SendShoppingList(c.Context(), middleware.Identity(c)); err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageNothingToExport, err)
		}
		return presenters.Fail(c, domain.MessageFailedSendShoppingList, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSendShoppingList)
}

func (h *recipeHandler) GetLink(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetLink, err)
	}

	res, err := h.recipeService.GetLink(c.Context(), id)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetLink, err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *recipeHandler) ResolveShortLink(c *fiber.Ctx) error {
	path, err := h.recipeService.ResolveShortLink(c.Context(), c.Params("token"))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedResolveLink, err)
	}
	return c.Redirect(path, fiber.StatusFound)
}
