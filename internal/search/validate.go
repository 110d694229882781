package search

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidFilter is wrapped by every ValidationError.
var ErrInvalidFilter = errors.New("invalid filter")

// ValidationError describes the first rule a request violated.
type ValidationError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidFilter }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("employment_type", func(fl validator.FieldLevel) bool {
		return isEmploymentType(fl.Field().String())
	})
	_ = v.RegisterValidation("experience_level", func(fl validator.FieldLevel) bool {
		return isExperienceLevel(fl.Field().String())
	})
	return v
}

// Validate checks f against its struct rules.
func (f FilterSpec) Validate() error {
	return check(f)
}

func (f FeaturedSpec) Validate() error {
	return check(f)
}

// ValidateStruct runs the shared validator over any tagged payload.
func ValidateStruct(v any) error {
	return check(v)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	fe := verrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Tag:     fe.Tag(),
		Param:   fe.Param(),
		Message: messageFor(fe),
	}
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	label := strings.ToUpper(field[:1]) + field[1:]
	switch fe.Tag() {
	case "lte":
		if field == "limit" {
			return fmt.Sprintf("Limit cannot exceed %s", fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", label, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s must not be negative", label)
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s accepts at most %s values", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "employment_type":
		return fmt.Sprintf("Invalid employment type: %v", fe.Value())
	case "experience_level":
		return fmt.Sprintf("Invalid experience level: %v", fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", label)
	}
	return fmt.Sprintf("%s is invalid", label)
}
