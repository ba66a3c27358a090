package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages keyed by struct field.
var validationMessages = map[string]string{
	"Manifest.Content":       "Please paste CSV data first",
	"Manifest.Filename":      "Please upload a CSV file first",
	"Manifest.DisplayName":   "Upload name must be 100 characters or fewer",
	"ItemCheckRequest.Title": "Please enter an item title",
	"ItemCheckRequest.MSRP":  "Please enter a valid MSRP greater than 0",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validate runs struct validation and returns the first failure as a ValidationError.
func (c *Controller) validate(s any) error {
	err := c.validator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "input", Reason: err.Error(), Message: err.Error()}
	}
	fe := verrs[0]
	key := fe.StructNamespace()
	msg, ok := validationMessages[key]
	if !ok {
		msg = fe.Error()
	}
	return &ValidationError{Field: fe.Field(), Reason: fe.Tag(), Message: msg}
}
