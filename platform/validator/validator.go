// Package validator wraps go-playground struct validation and turns its
// errors into messages suitable for API responses.
package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator validates transport structs against their validate tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates s. On failure it returns a FieldErrors value whose
// Error() lists each offending field once, in a stable, client-readable form.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fe := make(FieldErrors, 0, len(verrs))
	for _, v := range verrs {
		fe = append(fe, FieldError{
			Field:   lowerFirst(v.Field()),
			Message: messageFor(v),
		})
	}
	return fe
}

// Var validates a single value against a tag, for checks outside struct binding.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// FieldError describes one failed constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors aggregates all constraint failures from one Struct call.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if v.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", v.Param())
		}
		return fmt.Sprintf("must be at least %s", v.Param())
	case "max":
		if v.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", v.Param())
		}
		return fmt.Sprintf("must be at most %s", v.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", v.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", v.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", v.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(v.Param(), " ", ", ")
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "dive":
		return "contains an invalid entry"
	default:
		return "is invalid (" + v.Tag() + ")"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
