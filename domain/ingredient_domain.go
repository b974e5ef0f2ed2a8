package domain

import (
	"errors"
	"fmt"
)

var (
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient"
	MessageSuccessGetTags        = "success get tags"
	MessageSuccessGetTag         = "success get tag"

	MessageFailedGetIngredients = "failed to get ingredients"
	MessageFailedGetIngredient  = "failed to get ingredient"
	MessageFailedGetTags        = "failed to get tags"
	MessageFailedGetTag         = "failed to get tag"

	ErrIngredientNotFound = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrIngredientInUse    = errors.New("ingredient is used by recipes and cannot be deleted")
	ErrTagNotFound        = fmt.Errorf("tag %w", ErrNotFound)
)

type (
	Ingredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	Tag struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
)
