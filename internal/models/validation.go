package models

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tags shared by the struct definition and the single-field validators.
const (
	nameRules        = "notblank,min=4,max=50"
	descriptionRules = "notblank,min=10,max=100"
	priceRules       = "finite,gte=0"
	imageURLRules    = "notblank,url"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("notblank", validateNotBlank)
	v.RegisterValidation("finite", validateFinite)
	return v
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateFinite rejects NaN and both infinities, which cannot be rendered as JSON.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// messages maps JSON field name and failed tag to the user facing text.
var messages = map[string]map[string]string{
	"name": {
		"notblank": "Product name is required.",
		"min":      "Product name must be between 4 and 50 characters.",
		"max":      "Product name must be between 4 and 50 characters.",
	},
	"description": {
		"notblank": "Product description is required.",
		"min":      "Product description must be between 10 and 100 characters.",
		"max":      "Product description must be between 10 and 100 characters.",
	},
	"price": {
		"finite": "Product price must be a finite number.",
		"gte":    "Product price must be greater than or equal to 0.",
	},
	"imageUrl": {
		"notblank": "Product image URL is required.",
		"url":      "Please provide a valid image URL for the product image.",
	},
}

// jsonNames maps struct field names to their JSON names.
var jsonNames = map[string]string{
	"Name":        "name",
	"Description": "description",
	"Price":       "price",
	"ImageURL":    "imageUrl",
}

func violation(field, tag string) Violation {
	msg, ok := messages[field][tag]
	if !ok {
		msg = "Field '" + field + "' failed on the '" + tag + "' tag"
	}
	return Violation{Field: field, Message: msg}
}

func validateStruct(p *Product) error {
	if p == nil {
		return NewValidationError("product", "Product is required.")
	}
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, violation(jsonNames[fe.StructField()], fe.Tag()))
	}
	return verr
}

func validateField(field string, value interface{}, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, violation(field, fe.Tag()))
	}
	return verr
}

// ValidateName checks a candidate product name.
func ValidateName(name string) error {
	return validateField("name", name, nameRules)
}

// ValidateDescription checks a candidate product description.
func ValidateDescription(description string) error {
	return validateField("description", description, descriptionRules)
}

// ValidatePrice checks a candidate product price.
func ValidatePrice(price float64) error {
	return validateField("price", price, priceRules)
}

// ValidateImageURL checks a candidate product image URL.
func ValidateImageURL(imageURL string) error {
	return validateField("imageUrl", imageURL, imageURLRules)
}
