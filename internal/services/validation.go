package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput переводит ошибки валидатора в доменные: required -> ErrMissingField.
func checkInput(v interface{}, missingMsg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newError(ErrInvalidInput, err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return newError(ErrMissingField, missingMsg)
		}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return newError(ErrInvalidInput, "Invalid "+strings.Join(fields, ", "))
}
