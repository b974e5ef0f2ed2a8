package presenters

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"foodgram/domain"
	"foodgram/internal/utils/storage"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewFieldError("ingredients", nil, domain.ErrEmptyCollection), fiber.StatusBadRequest},
		{domain.NewFieldError("ingredients[1].id", 3, domain.ErrDuplicateEntry), fiber.StatusBadRequest},
		{domain.ErrEmptyCart, fiber.StatusBadRequest},
		{domain.ErrInvalidCredentials, fiber.StatusBadRequest},
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.NewFieldError("favorite", 1, domain.ErrNotFound), fiber.StatusNotFound},
		{domain.ErrPermissionDenied, fiber.StatusForbidden},
		{domain.ErrUnauthenticated, fiber.StatusUnauthorized},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{fmt.Errorf("upload: %w", storage.ErrStorageUnavailable), fiber.StatusServiceUnavailable},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorResponse_Body(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Fail(c, "failed to create recipe", domain.NewFieldError("ingredients[0].amount", 0, domain.ErrInvalidAmount))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body Response
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Status)
	assert.Equal(t, "failed to create recipe", body.Message)
	assert.Equal(t, "ingredients[0].amount", body.Field)
	assert.Contains(t, body.Error, "amount must be greater than 0")
}
