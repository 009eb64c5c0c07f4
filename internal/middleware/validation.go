package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var aadhaarTagPattern = regexp.MustCompile(`^\d{12}$`)

// RegisterValidations installs the domain validators referenced by request
// binding tags and makes validation errors report json field names.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	validations := map[string]validator.Func{
		"aadhaar": func(fl validator.FieldLevel) bool {
			return aadhaarTagPattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}
