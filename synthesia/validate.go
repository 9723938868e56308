package synthesia

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/petal-labs/reel/core"
	"github.com/petal-labs/reel/internal/normalize"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// validateRequest checks req against its validate tags.
// It returns nil when req is valid.
func validateRequest(req any) *core.APIError {
	if req == nil || (reflect.ValueOf(req).Kind() == reflect.Pointer && reflect.ValueOf(req).IsNil()) {
		return normalize.ValidationError("request is required", nil)
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return normalize.ValidationError(err.Error(), nil)
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fieldPath(fe)] = validationMessage(fe)
	}
	return normalize.ValidationError("validation failed", details)
}

// fieldPath drops the top level struct name from the namespace,
// so CreateVideoRequest.input[0].avatar becomes input[0].avatar.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return fmt.Sprintf("is required when %s is empty", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

func validationFailure(field, message string) *core.APIError {
	return normalize.ValidationError("validation failed", map[string]string{field: message})
}
