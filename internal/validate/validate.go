// Package validate holds the shared request validator for HTTP DTOs.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// notblank: non-empty after trimming whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// kind: transaction direction
	_ = Validate.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "income" || s == "expense"
	})
}

// Struct validates a DTO against its struct tags.
func Struct(v any) error {
	return Validate.Struct(v)
}
