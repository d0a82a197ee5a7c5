// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/wallet"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("wallet_shape", validateWalletShape)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// jsonFieldName reports fields under their wire names so errors line up
// with the form the user filled in.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateWalletShape is the loose address check the registration form
// applies: a 0x prefix and the full address length, nothing more.
func validateWalletShape(fl validator.FieldLevel) bool {
	return wallet.HasAddressShape(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FieldMessages maps a field's wire name to the i18n key of its message.
type FieldMessages map[string]string

func GetValidationErrors(err error) []ValidationError {
	return LocalizedValidationErrors(err, i18n.DefaultLang, nil)
}

// LocalizedValidationErrors converts validator errors into field-scoped
// messages, using messages for fields that have a dedicated text.
func LocalizedValidationErrors(err error, lang string, messages FieldMessages) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			message := getValidationMessage(e)
			if key, ok := messages[e.Field()]; ok {
				message = i18n.T(lang, key)
			}
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: message,
			})
		}
	}

	return validationErrors
}

// FieldError returns the message recorded for field, if any.
func FieldError(errs []ValidationError, field string) (string, bool) {
	for _, e := range errs {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be " + e.Param() + " or above"
	case "wallet_shape":
		return "Invalid wallet address"
	default:
		return e.Field() + " is invalid"
	}
}
