package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"callcenter-platform/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so details match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// maxbytes bounds the encoded length of a string, e.g. bcrypt's 72-byte input limit.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && fl.Field().Kind() == reflect.String && len(fl.Field().String()) <= n
	})
	return v
}

// Struct validates s against its `validate` tags and returns an apperr Invalid
// error describing the first violated rule.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Wrap(apperr.KindInvalid, err, message(fieldErrs[0]))
	}
	return apperr.Wrap(apperr.KindInvalid, err, "Datos inválidos")
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", field)
	case "email":
		return fmt.Sprintf("El campo %s debe ser un email válido", field)
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if isText {
			return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("El campo %s debe ser mayor o igual a %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("El campo %s debe tener como máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("El campo %s debe ser menor o igual a %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("El campo %s debe ocupar como máximo %s bytes", field, fe.Param())
	case "gt":
		return fmt.Sprintf("El campo %s debe ser mayor que %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("El campo %s debe ser mayor o igual a %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("El campo %s debe ser menor o igual a %s", field, fe.Param())
	default:
		return fmt.Sprintf("El campo %s no es válido (%s)", field, fe.Tag())
	}
}

// Lower trims and lowercases an enum value in place.
func Lower(p *string) {
	if p != nil {
		*p = strings.ToLower(strings.TrimSpace(*p))
	}
}

// Trim trims surrounding whitespace in place.
func Trim(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
