package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"thinkboard/model"

	"github.com/go-playground/validator/v10"
)

var (
	Validate      *validator.Validate
	validatorOnce sync.Once
)

// InitValidator builds the shared validator. Field names in errors follow the json tags so
// they match what API callers send.
func InitValidator() {
	validatorOnce.Do(func() {
		Validate = validator.New(validator.WithRequiredStructEnabled())
		Validate.RegisterTagNameFunc(jsonFieldName)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// ValidateNote applies the note schema (title and content required) and returns a
// *model.ValidationError naming every failing field.
func ValidateNote(note *model.Note) error {
	InitValidator()

	err := Validate.Struct(note)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &model.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field())
	}
	return verr
}
