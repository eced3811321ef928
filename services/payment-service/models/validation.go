package models

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNoteKeys     = 15
	maxNoteValueLen = 256
)

var indianPhone = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9]\d{9}$`)

// RegisterValidators adds the custom binding tags used by the request models to
// gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("gateway_notes", validateGatewayNotes); err != nil {
		return err
	}
	return v.RegisterValidation("indian_phone", validateIndianPhone)
}

// Orders accept at most 15 notes of 256 characters each.
func validateGatewayNotes(fl validator.FieldLevel) bool {
	notes, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}
	if len(notes) > maxNoteKeys {
		return false
	}
	for _, v := range notes {
		if len(v) > maxNoteValueLen {
			return false
		}
	}
	return true
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	return indianPhone.MatchString(fl.Field().String())
}
