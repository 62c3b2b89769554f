// Package validation holds the rule sets applied to client payloads before
// anything reaches the database.
//
// Rules are declared once as struct tags on the input types and backed by
// small predicates (NotBlank, HasNoDigits, ...) that can be tested on their
// own. Validation never short-circuits across fields: every field is checked
// and the first failing rule of each field contributes one message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// ruleMessages maps a tag to the message template for a failed field.
var ruleMessages = map[string]string{
	"notblank":    "%s is required",
	"nodigits":    "%s cannot contain numbers",
	"strictemail": "%s must be a valid email",
	"numeral":     "%s must be a number",
	"nonnegative": "%s must be >= 0",
	"posint":      "%s must be a positive integer",
}

func get() *validator.Validate {
	once.Do(func() {
		instance = newValidator()
	})
	return instance
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(Number); ok {
			return n.String()
		}
		return nil
	}, Number{})

	mustRegister(v, "notblank", NotBlank)
	mustRegister(v, "nodigits", HasNoDigits)
	mustRegister(v, "strictemail", IsStrictEmail)
	mustRegister(v, "numeral", IsNumber)
	mustRegister(v, "nonnegative", IsNonNegative)
	mustRegister(v, "posint", IsPositiveInteger)

	return v
}

func mustRegister(v *validator.Validate, tag string, predicate func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return predicate(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// check runs the tag rules on payload and returns one message per failing field.
func check(payload interface{}) []string {
	err := get().Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid request body"}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		tmpl, ok := ruleMessages[fe.Tag()]
		if !ok {
			tmpl = "%s is invalid"
		}
		messages = append(messages, fmt.Sprintf(tmpl, fe.Field()))
	}
	return messages
}
