package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodgram/domain"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// NewValidator returns a validator with the application's custom tags
// registered. The json tag name is reported as the field name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError converts the first validator failure into a field error.
func ValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	first := errs[0]
	if first.Tag() == "required" {
		return domain.NewFieldError(first.Field(), nil, domain.ErrMissingRequiredField)
	}
	return domain.NewFieldError(first.Field(), first.Value(), fmt.Errorf("%w: failed %s", domain.ErrInvalidValue, first.Tag()))
}
