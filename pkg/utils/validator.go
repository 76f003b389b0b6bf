package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/pslrisk/pkg/errors"
)

// defaultValidator is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var defaultValidator *validator.Validate

func init() {
	defaultValidator = validator.New()
	defaultValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = defaultValidator.RegisterValidation("timestamp", validateTimestamp)
}

// Validator returns the shared validator instance (used to plug into gin's binding engine).
func Validator() *validator.Validate {
	return defaultValidator
}

// ValidateStruct validates a struct using the default validator.
// It returns an invalid_request ServiceError naming every failed field.
func ValidateStruct(s interface{}) errors.ServiceError {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.ErrInvalidRequest(err.Error())
	}
	details := make(map[string]string, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		name := fe.Namespace()
		if idx := strings.Index(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		details[name] = formatValidationError(fe)
		fields = append(fields, name)
	}
	return errors.ErrInvalidRequest(fmt.Sprintf("Validation failed for: %s", strings.Join(fields, ", "))).
		WithMetadata("fields", details)
}

func validateTimestamp(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := ParseTimestamp(value)
	return err == nil
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "timestamp":
		return "must be an RFC3339 timestamp or YYYY-MM-DD date"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

