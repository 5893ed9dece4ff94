/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names, e.g. "products[0].tnved_code".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is returned when a document has invalid fields.
type ValidationError struct {
	Fields []FieldViolation
}

// FieldViolation describes a single invalid field.
type FieldViolation struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+" "+f.Message)
	}
	return "invalid document: " + strings.Join(msgs, "; ")
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate document: %w", err)
	}
	violations := make([]FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, FieldViolation{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return &ValidationError{Fields: violations}
}

// fieldPath strips the root type name from the namespace ("Document.products[0].tnved_code").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must contain only digits"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "len=10|len=12":
		return "must be 10 or 12 characters long"
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
