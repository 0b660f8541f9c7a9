package models

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct's validate tags and reports failures as a 400.
func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, httperror.NewHTTPError(http.StatusBadRequest, ValidationErrorToString(value, err).Error())
	}
	return value, nil
}

func ValidateValue(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, ValidationErrorToString(value, err).Error())
	}
	return nil
}

func ValidationErrorToString(input any, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		var msg strings.Builder
		for _, fe := range verrs {
			msg.WriteString(fmt.Sprintf("\n • Failed %T validation for field '%s': rule '%s' expected '%s', got '%v'.", input, fe.StructField(), fe.Tag(), fe.Param(), fe.Value()))
		}
		return fmt.Errorf("%s", msg.String())
	}
	return err
}
