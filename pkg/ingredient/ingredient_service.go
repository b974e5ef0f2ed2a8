package ingredient

import (
	"context"

	"foodgram/domain"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error)
		DeleteIngredient(ctx context.Context, id uint) error
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, domain.Ingredient{
			ID:              ingredient.ID,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
		})
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error) {
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return domain.Ingredient{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}, nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, id uint) error {
	return s.ingredientRepository.DeleteIngredient(ctx, id)
}
