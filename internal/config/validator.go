package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// keyPrefixPattern matches storage key prefixes such as "certquiz." or "exam-2025.".
var keyPrefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*\.$`)

type customRule struct {
	tag     string
	valid   validator.Func
	message string
}

var customRules = []customRule{
	{tag: "file", valid: isFileReadable, message: "{0} must be an existing and readable file"},
	{tag: "key_prefix", valid: isKeyPrefix, message: "{0} must be lowercase words ending with a dot, like certquiz."},
}

// newValidator returns a validator reporting fields by their config keys, with English messages.
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range customRules {
		if err := validate.RegisterValidation(rule.tag, rule.valid); err != nil {
			return nil, nil, fmt.Errorf("validate.RegisterValidation(%s) > %w", rule.tag, err)
		}
		if err := validate.RegisterTranslation(rule.tag, trans, func(ut ut.Translator) error {
			return ut.Add(rule.tag, rule.message, true)
		}, translateByConfigKey); err != nil {
			return nil, nil, fmt.Errorf("validate.RegisterTranslation(%s) > %w", rule.tag, err)
		}
	}
	return validate, trans, nil
}

// translateByConfigKey names the field by its dotted config key, e.g. storage.key_prefix.
func translateByConfigKey(ut ut.Translator, fe validator.FieldError) string {
	t, _ := ut.T(fe.Tag(), strings.TrimPrefix(fe.Namespace(), "Config."))
	return t
}

// isFileReadable reports whether the field names a regular file that can be opened.
func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func isKeyPrefix(fl validator.FieldLevel) bool {
	return keyPrefixPattern.MatchString(fl.Field().String())
}
