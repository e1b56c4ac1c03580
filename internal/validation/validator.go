// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// GetValidator returns the shared validator. Field names in errors come
// from json tags.
var GetValidator = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// notblank rejects strings made only of whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidationError is one failed rule on one field. Field, Tag, Param and
// Value come from the embedded validator.FieldError.
type ValidationError struct {
	validator.FieldError
	message string
}

// Error returns the client-facing message.
func (e ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	errors []ValidationError
	cause  error // set when validation could not run at all
}

// Errors returns the failures in struct field order.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		if ve.cause != nil {
			return ve.cause.Error()
		}
		return "validation failed"
	}
	parts := make([]string, len(ve.errors))
	for i := range ve.errors {
		parts[i] = ve.errors[i].message
	}
	return strings.Join(parts, "; ")
}

func (ve *RequestValidationError) Unwrap() error {
	return ve.cause
}

// APIError carries what the HTTP layer needs to write a 400 response.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError shapes the failures for a VALIDATION_ERROR body. A single
// failure reports its field and tag; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	out := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	switch len(ve.errors) {
	case 0:
	case 1:
		e := ve.errors[0]
		out.Message = e.message
		out.Details = map[string]any{"field": e.Field(), "tag": e.Tag()}
	default:
		fields := make([]map[string]any, len(ve.errors))
		for i, e := range ve.errors {
			fields[i] = map[string]any{"field": e.Field(), "tag": e.Tag(), "message": e.message}
		}
		out.Message = ve.Error()
		out.Details = map[string]any{"fields": fields}
	}
	return out
}

// ValidateStruct returns nil when s passes every rule.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{cause: err}
	}
	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{FieldError: fe, message: describe(fe)}
	}
	return &RequestValidationError{errors: out}
}

var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "greater than or equal to",
	"lt":  "less than",
	"lte": "less than or equal to",
}

// describe renders fe for API clients.
func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch tag := fe.Tag(); tag {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s", field, comparisons[tag], param)
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, bound, param)
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
