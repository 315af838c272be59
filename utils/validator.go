package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs `validate` tags on a request payload and returns the
// first failure as a human-readable message.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if ok := isValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fieldName(fe))
		case "email":
			return fmt.Errorf("%s must be a valid email", fieldName(fe))
		case "min":
			return fmt.Errorf("%s must be at least %s characters", fieldName(fe), fe.Param())
		case "oneof":
			return fmt.Errorf("%s must be one of: %s", fieldName(fe), fe.Param())
		case "url":
			return fmt.Errorf("%s must be a valid URL", fieldName(fe))
		}
		return fmt.Errorf("%s is invalid", fieldName(fe))
	}
	return err
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
