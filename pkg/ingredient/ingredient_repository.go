package ingredient

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error)
		GetIngredientByName(ctx context.Context, name, unit string) (*entities.Ingredient, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		ExistingIngredientIDs(ctx context.Context, ids []uint) (map[uint]struct{}, error)
		DeleteIngredient(ctx context.Context, id uint) error
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredientByName(ctx context.Context, name, unit string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	query := r.db.WithContext(ctx)

	if prefix := strings.TrimSpace(namePrefix); prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}

	if err := query.Order("name asc").Order("id asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) ExistingIngredientIDs(ctx context.Context, ids []uint) (map[uint]struct{}, error) {
	existing := make(map[uint]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// DeleteIngredient refuses to delete an ingredient still referenced by a
// recipe. The restrict foreign key on recipe_ingredients backs the check.
func (r *ingredientRepository) DeleteIngredient(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&entities.RecipeIngredient{}).
			Where("ingredient_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrIngredientInUse
		}

		res := tx.Where("id = ?", id).Delete(&entities.Ingredient{})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return domain.ErrIngredientInUse
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrIngredientNotFound
		}
		return nil
	})
}
