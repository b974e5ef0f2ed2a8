// Package metrics exposes Prometheus collectors for recipe composition,
// membership toggles, shopping list exports and short links.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foodgram"

var (
	RecipeCompositions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_compositions_total",
			Help:      "Recipe create and update attempts by outcome.",
		},
		[]string{"operation", "result"},
	)

	MembershipToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_toggles_total",
			Help:      "Favorite, shopping cart and follow toggles by outcome.",
		},
		[]string{"kind", "intent", "result"},
	)

	ShoppingListExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shopping_list_exports_total",
			Help:      "Shopping list exports by format.",
		},
		[]string{"format"},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shopping_list_lines",
			Help:      "Number of consolidated lines per exported shopping list.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	ShortLinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "short_link_resolutions_total",
			Help:      "Short link resolutions by outcome.",
		},
		[]string{"result"},
	)
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
