package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// RegisterBindingValidations installs custom request validation rules on
// gin's binding engine. Call once at startup before serving.
func RegisterBindingValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("localdate", validLocalDate)
	}
}

// validLocalDate accepts YYYY-MM-DD strings, with or without a trailing
// time component.
func validLocalDate(fl validator.FieldLevel) bool {
	_, err := accounting.ParseLocalDate(fl.Field().String())
	return err == nil
}
