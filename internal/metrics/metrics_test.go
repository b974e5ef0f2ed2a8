package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestShoppingListExports_Counts(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListExports.WithLabelValues("csv"))
	ShoppingListExports.WithLabelValues("csv").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ShoppingListExports.WithLabelValues("csv")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	ShortLinkResolutions.WithLabelValues("ok").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "foodgram_short_link_resolutions_total")
}
