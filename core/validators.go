package core

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	secretTag     = "secret"
	secretText    = "must be at least 8 characters long and contain a letter, a digit and one of !@#$%^&*()-_=+[]{};:,.?"
	secretSymbols = "!@#$%^&*()-_=+[]{};:,.?"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// NewValidate instantiates a configured validator and its translator.
func NewValidate() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(secretTag, secretValidation)
	RegisterCustomTranslation(validate, translator, secretTag, secretText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// secretValidation enforces the minimum password strength policy:
// at least 8 characters with a letter, a digit and a symbol from the allowed set.
func secretValidation(fl validator.FieldLevel) bool {
	return CheckSecretStrength(fl.Field().String()) == nil
}

// CheckSecretStrength validates `pwd` against the minimum strength policy.
func CheckSecretStrength(pwd string) error {
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range pwd {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(secretSymbols, r):
			hasSymbol = true
		}
	}
	if len(pwd) < 8 || !hasLetter || !hasDigit || !hasSymbol {
		return NewValidationError(nil, FieldError{Field: "secret", Error: secretText})
	}
	return nil
}
