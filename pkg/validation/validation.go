// Package validation wraps go-playground/validator with English error translation.
// Field names in messages follow the json (or toml) tag of the struct field.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// single instance, it caches struct info
var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(tagName)

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// Struct validates s against its `validate` tags and returns a single error
// joining every translated violation with "; ".
func Struct[T any](s T) error {
	if err := validate.Struct(s); err != nil {
		return errors.New(strings.Join(translate(err), "; "))
	}
	return nil
}

// Var validates a single value against a tag expression.
func Var(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return errors.New(strings.Join(translate(err), "; "))
	}
	return nil
}

func translate(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return msgs
}

func tagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
	}
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
