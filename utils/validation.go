package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the shared validator over a request payload. It
// returns nil when the payload passes, otherwise a field-to-message map
// ready to serialize.
func ValidateStruct(payload interface{}) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return map[string]string{"payload": err.Error()}
	}

	errorMap := make(map[string]string)
	for _, e := range invalid {
		field := strings.ToLower(e.Field()[:1]) + e.Field()[1:]
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", field)
		case "email":
			message = fmt.Sprintf("The %s field must be a valid email address.", field)
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", field, e.Param())
		case "oneof":
			message = fmt.Sprintf("The %s field must be one of: %s.", field, e.Param())
		case "gt":
			message = fmt.Sprintf("The %s field must be greater than %s.", field, e.Param())
		default:
			message = fmt.Sprintf("The %s field failed validation on the %s rule.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}
