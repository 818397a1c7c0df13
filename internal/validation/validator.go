// Package validation wraps go-playground/validator so that failures surface as
// domain validation errors carrying per-field details.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator validates structs by their `validate` tags and reports field names by their json tags.
// It also satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}

		return name
	})

	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}

// Struct validates s and returns ErrValidationFailed with []FieldError details on failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate struct")
	}

	return domainerrors.ErrValidationFailed.WithDetails(ToDetails(verrs))
}

// ToDetails converts validator errors into client-facing field errors.
func ToDetails(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fe.Field() + " " + formatFieldError(fe),
		})
	}

	return out
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' validation with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
