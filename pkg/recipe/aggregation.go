package recipe

import (
	"bytes"
	"context"
	"fmt"

	"foodgram/domain"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/pkg/shoppinglist"

	"github.com/goccy/go-json"
)

// Aggregator derives read-only views from the stored association rows.
type Aggregator struct {
	repo RecipeRepository
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
	Lines       int
}

func NewAggregator(repo RecipeRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// IngredientsOf lists the recipe's ingredients in insertion order with the
// stored amounts.
func (a *Aggregator) IngredientsOf(ctx context.Context, recipeID uint) ([]domain.RecipeIngredient, error) {
	rows, err := a.repo.GetRecipeIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		item := domain.RecipeIngredient{ID: row.IngredientID, Amount: row.Amount}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		res = append(res, item)
	}
	return res, nil
}

// ShoppingListFor sums the ingredient rows of every recipe in the user's cart,
// one line per ingredient id. An empty cart is ErrEmptyCart.
func (a *Aggregator) ShoppingListFor(ctx context.Context, userID uint) ([]shoppinglist.Line, error) {
	count, err := a.repo.CountMemberships(ctx, domain.MembershipShoppingCart, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrEmptyCart
	}

	items, err := a.repo.GetShoppingCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := shoppinglist.Consolidate(items)
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	return lines, nil
}

// Render encodes lines in the requested format. Every format carries the same
// grouped totals.
func Render(owner, username string, lines []shoppinglist.Line, format shoppinglist.Format) (Export, error) {
	var buf bytes.Buffer
	switch format {
	case shoppinglist.FormatText:
		if err := shoppinglist.RenderText(&buf, owner, lines); err != nil {
			return Export{}, err
		}
	case shoppinglist.FormatCSV:
		if err := shoppinglist.RenderCSV(&buf, lines); err != nil {
			return Export{}, err
		}
	case shoppinglist.FormatJSON:
		if err := json.NewEncoder(&buf).Encode(lines); err != nil {
			return Export{}, err
		}
	default:
		return Export{}, fmt.Errorf("unsupported shopping list format %q", format)
	}

	metrics.ShoppingListExports.WithLabelValues(string(format)).Inc()
	metrics.ShoppingListLines.Observe(float64(len(lines)))
	logging.Debug().Str("format", string(format)).Int("lines", len(lines)).Msg("shopping list rendered")

	return Export{
		Filename:    shoppinglist.Filename(username, format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
		Lines:       len(lines),
	}, nil
}
