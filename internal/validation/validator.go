// Package validation provides request and credential validation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"blogapp/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator. Field names in errors use the
// json tag so they line up with request bodies.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct validates s and returns a VALIDATION_ERROR carrying a
// per-field message map, or nil.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewValidationError(err.Error())
	}

	fields := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Field()
		if fe.Tag() == "eqfield" {
			// Confirmation mismatches are reported on the field being confirmed.
			key = jsonFieldName(s, fe.Param())
		}
		fields[key] = append(fields[key], translate(fe))
	}
	return models.NewFieldValidationError("Validation failed", fields)
}

var messageTemplates = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
}

var messageWithParam = map[string]string{
	"max":   "Ensure this field has no more than %s characters.",
	"oneof": "Must be one of: %s.",
}

func translate(fe validator.FieldError) string {
	if fe.Tag() == "eqfield" {
		return PasswordMismatchMessage
	}
	if msg, ok := messageTemplates[fe.Tag()]; ok {
		return msg
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

// jsonFieldName returns the json name of the Go field goName on s's struct
// type, falling back to goName.
func jsonFieldName(s any, goName string) string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return goName
	}
	f, ok := t.FieldByName(goName)
	if !ok {
		return goName
	}
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return goName
}
