// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// warmProfilePattern accepts query-string style warm profiles such as
// "category=shoes&sortBy=price&limit=24". Empty profiles are rejected.
var warmProfilePattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+=[^&;]*(&[A-Za-z0-9_\-]+=[^&;]*)*$`)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every failed rule for one request.
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// ToAPIError converts the failures into the VALIDATION_ERROR response body.
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	apiErr := &models.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.Fields) {
	case 0:
	case 1:
		f := ve.Fields[0]
		apiErr.Message = f.Message
		apiErr.Details = map[string]interface{}{"field": f.Field, "tag": f.Tag}
	default:
		fields := make([]map[string]interface{}, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message}
		}
		apiErr.Message = ve.Error()
		apiErr.Details = map[string]interface{}{"fields": fields}
	}
	return apiErr
}

// GetValidator returns the shared validator. Field names in messages come
// from the json tag so they match what clients send.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		//nolint:errcheck // tag name and func are static
		validate.RegisterValidation("warmprofile", func(fl validator.FieldLevel) bool {
			return warmProfilePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct returns nil when s passes, otherwise every failed rule.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: fields}
}

var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"url":         "%s must be a valid URL",
	"warmprofile": "%s must look like key=value&key=value",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	unit := ""
	if fe.Kind().String() == "string" {
		unit = " characters"
	} else if fe.Kind().String() == "slice" {
		unit = " items"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
