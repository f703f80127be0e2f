package core

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} must be a non-empty string"

	readOnlyTag  = "readonly"
	readOnlyText = "{0} cannot be updated"

	dateIntTag  = "yyyymmdd"
	dateIntText = "{0} must be a valid date in YYYYMMDD format (ex: 20251126)"

	isoDateTag  = "isodate"
	isoDateText = "{0} must be in YYYY-MM-DD format (ex: 2025-11-26)"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

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
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(readOnlyTag, readOnlyValidation, true /* callValidationEvenIfNull */)
	RegisterCustomTranslation(validate, translator, readOnlyTag, readOnlyText)

	_ = validate.RegisterValidation(dateIntTag, dateIntValidation)
	RegisterCustomTranslation(validate, translator, dateIntTag, dateIntText)

	_ = validate.RegisterValidation(isoDateTag, isoDateValidation)
	RegisterCustomTranslation(validate, translator, isoDateTag, isoDateText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// `{0}` in text is replaced by the field name and `{1}` by the tag param.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// TranslateErrors flattens validation errors into a field -> message map.
func TranslateErrors(errs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fldErrs := make(map[string]string, len(errs))
	for _, vErr := range errs {
		fldErrs[fieldPath(vErr)] = vErr.Translate(translator)
	}
	return fldErrs
}

// fieldPath drops the top-level struct name from the namespace: `NewTask.title` -> `title`.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	fld := fl.Field()
	if fld.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(fld.String()) != ""
}

// readOnlyValidation fails whenever the field was sent at all. Use it on pointer fields.
func readOnlyValidation(fl validator.FieldLevel) bool {
	return fl.Field().IsZero()
}

func dateIntValidation(fl validator.FieldLevel) bool {
	fld := fl.Field()
	switch fld.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return ValidDateInt(int(fld.Int()))
	}
	return false
}

func isoDateValidation(fl validator.FieldLevel) bool {
	fld := fl.Field()
	if fld.Kind() != reflect.String {
		return false
	}
	return ValidISODate(fld.String())
}
