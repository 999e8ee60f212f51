package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	translator ut.Translator
	setupOnce  sync.Once

	// custom validation tags
	notBlankTag = "notblank"
	gradeTag    = "grade"
)

// SetupValidation registers custom tags and English messages on gin's validator
func SetupValidation() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		// Use JSON tag names for errors instead of Go struct names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(notBlankTag, notBlankValidation)
		_ = v.RegisterValidation(gradeTag, gradeValidation)

		registerFn := func(ut.Translator) error { return nil }
		for _, tag := range []string{notBlankTag, gradeTag} {
			_ = v.RegisterTranslation(tag, translator, registerFn, translateCustomValidationErrs)
		}
	})
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case gradeTag:
		return "must be one of A+ to E, F, I, S or U"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func gradeValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return grading.IsValidGrade(str)
	}
	return false
}

// fieldErrors turns a validator failure into a field -> message map
func fieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if translator != nil {
			fields[fe.Field()] = fe.Translate(translator)
		} else {
			fields[fe.Field()] = fe.Error()
		}
	}
	return fields, true
}
