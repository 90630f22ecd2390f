package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks struct inputs against their validate tags. Maps and
// other loosely typed payloads are passed through unchecked.
func validateInput(input any) error {
	if input == nil {
		return &domain.ValidationError{Err: errEmptyPayload}
	}
	v := reflect.Indirect(reflect.ValueOf(input))
	if v.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(input); err != nil {
		return &domain.ValidationError{Err: err}
	}
	return nil
}

func validateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return &domain.ValidationError{Err: err}
	}
	return nil
}
