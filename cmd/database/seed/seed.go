package seed

import (
	"context"
	"errors"
	"os"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logging"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type (
	ingredientFixture struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	tagFixture struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	Result struct {
		Ingredients int
		Tags        int
	}
)

// Seed loads reference data from JSON fixtures. Rows already present, matched
// by name and unit or by slug, are skipped so the command can be rerun.
// An empty path skips that fixture.
func Seed(ctx context.Context, db *gorm.DB, ingredientsPath, tagsPath string) (Result, error) {
	var res Result

	if ingredientsPath != "" {
		n, err := seedIngredients(ctx, ingredient.NewIngredientRepository(db), ingredientsPath)
		if err != nil {
			return res, err
		}
		res.Ingredients = n
	}

	if tagsPath != "" {
		n, err := seedTags(ctx, tag.NewTagRepository(db), tagsPath)
		if err != nil {
			return res, err
		}
		res.Tags = n
	}

	logging.Info().Int("ingredients", res.Ingredients).Int("tags", res.Tags).Msg("seed complete")
	return res, nil
}

func seedIngredients(ctx context.Context, repo ingredient.IngredientRepository, path string) (int, error) {
	var fixtures []ingredientFixture
	if err := readFixture(path, &fixtures); err != nil {
		return 0, err
	}

	created := 0
	for _, f := range fixtures {
		_, err := repo.GetIngredientByName(ctx, f.Name, f.MeasurementUnit)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		if err := repo.CreateIngredient(ctx, &entities.Ingredient{Name: f.Name, MeasurementUnit: f.MeasurementUnit}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedTags(ctx context.Context, repo tag.TagRepository, path string) (int, error) {
	var fixtures []tagFixture
	if err := readFixture(path, &fixtures); err != nil {
		return 0, err
	}

	created := 0
	for _, f := range fixtures {
		_, err := repo.GetTagBySlug(ctx, f.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		if err := repo.CreateTag(ctx, &entities.Tag{Name: f.Name, Slug: f.Slug}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func readFixture(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
