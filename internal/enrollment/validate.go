package enrollment

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const dateOrderTag = "date_order"

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(enrollRequestStructValidation, EnrollRequest{})
	_ = validate.RegisterTranslation(dateOrderTag, translator,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "end_date must be after start_date" },
	)
}

func enrollRequestStructValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(EnrollRequest)
	if !ok {
		return
	}
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		sl.ReportError(req.EndDate, "end_date", "EndDate", dateOrderTag, "")
	}
}

// Validate checks the request's required fields and date order.
func (r EnrollRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the assignment's required fields.
func (a Assignment) Validate() error {
	return validate.Struct(a)
}

// FieldErrors maps a validation error to per-field messages keyed by JSON
// name. It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}
