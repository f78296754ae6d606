package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/go-playground/validator/v10"
)

var featurePattern = regexp.MustCompile(`^[a-z0-9_-]{1,40}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return domain.ValidSubdomain(fl.Field().String())
	})
	_ = v.RegisterValidation("feature", func(fl validator.FieldLevel) bool {
		return featurePattern.MatchString(fl.Field().String())
	})

	return v
}

// validateStruct runs the struct's validate tags and converts the first
// failure into a *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("", "invalid request")
	}

	fe := verrs[0]
	return invalid(fieldName(fe), message(fe))
}

func fieldName(fe validator.FieldError) string {
	// Namespace is "Struct.field[0]"; drop the struct name.
	_, name, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "role":
		return "must be one of: admin manager user"
	case "subdomain":
		return "must be 3-20 lowercase letters, digits or hyphens"
	case "feature":
		return "must be 1-40 lowercase letters, digits, underscores or hyphens"
	case "eqfield":
		return "does not match " + fe.Param()
	default:
		return "is invalid"
	}
}
