package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate runs the struct tag rules declared on request models.
var validate = validator.New()

// ValidationError marks errors caused by bad input, mapped to 400 at the
// HTTP layer.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func invalid(msg string) error {
	return &ValidationError{msg: msg}
}

// checkStruct validates tag rules and reports the first violation as a
// ValidationError so the HTTP layer maps it to 400.
func checkStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return invalid(fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return invalid(err.Error())
}
