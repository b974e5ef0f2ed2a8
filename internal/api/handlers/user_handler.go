package handlers

import (
	"strconv"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		SetAvatar(c *fiber.Ctx) error
		DeleteAvatar(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, utils.ValidationError(err))
	}

	res, err := h.userService.Register(c.Context(), req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, utils.ValidationError(err))
	}

	res, err := h.userService.Login(c.Context(), req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)
	res, err := h.userService.GetUsers(c.Context(), middleware.Identity(c), page, limit)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}

	res, err := h.userService.GetUser(c.Context(), middleware.Identity(c), id)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.Me(c.Context(), middleware.Identity(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) SetAvatar(c *fiber.Ctx) error {
	var req domain.AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, utils.ValidationError(err))
	}

	res, err := h.userService.SetAvatar(c.Context(), middleware.Identity(c), req)
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUpdateAvatar, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateAvatar)
}

func (h *userHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.userService.DeleteAvatar(c.Context(), middleware.Identity(c)); err != nil {
		return presenters.Fail(c, domain.MessageFailedDeleteAvatar, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedSubscribe, err)
	}

	res, err := h.userService.Subscribe(c.Context(), middleware.Identity(c), id, recipesLimit(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedUnsubscribe, err)
	}

	if err := h.userService.Unsubscribe(c.Context(), middleware.Identity(c), id); err != nil {
		return presenters.Fail(c, domain.MessageFailedUnsubscribe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	page, limit := pagination(c)
	res, err := h.userService.GetSubscriptions(c.Context(), middleware.Identity(c), page, limit, recipesLimit(c))
	if err != nil {
		return presenters.Fail(c, domain.MessageFailedGetSubscription, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscription)
}

// recipesLimit reads ?recipes_limit; anything unparsable means no limit.
func recipesLimit(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
