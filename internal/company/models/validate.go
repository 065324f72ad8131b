package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	e "github.com/gartstein/companyemployees/internal/company/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// messages maps validation tags to friendly messages; the first %s is the
// field, the second the tag parameter.
var messages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"min":      "The field '%s' must be at least %s characters long.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"lte":      "The field '%s' must be less than or equal to %s.",
}

// Validate checks v against its validate tags. It returns nil or a
// *errors.ValidationError keyed by JSON field path.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	verr := e.NewValidationError()
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		verr.Add(field, message(field, fe))
	}
	return verr
}

// fieldPath drops the struct name prefix from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	// max/min on numbers read better as bounds.
	if fe.Kind() == reflect.Int && (fe.Tag() == "max" || fe.Tag() == "min") {
		if fe.Tag() == "max" {
			return fmt.Sprintf(messages["lte"], field, fe.Param())
		}
		return fmt.Sprintf(messages["gte"], field, fe.Param())
	}
	msg, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("The field '%s' is invalid: %s", field, fe.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, field, fe.Param())
	}
	return fmt.Sprintf(msg, field)
}
