package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(eventStructLevel, Event{})
	v.RegisterStructValidation(achievementStructLevel, Achievement{})
	return v
}

// Validate runs the model's declared rules. Errors are validator.ValidationErrors.
func Validate(v any) error {
	return validate.Struct(v)
}

func eventStructLevel(sl validator.StructLevel) {
	e := sl.Current().Interface().(Event)
	if e.Date.IsZero() {
		sl.ReportError(e.Date, "date", "Date", "required", "")
	}
	if e.MaxParticipants != nil && e.CurrentParticipants > *e.MaxParticipants {
		sl.ReportError(e.CurrentParticipants, "currentParticipants", "CurrentParticipants", "ltefield", "maxParticipants")
	}
}

func achievementStructLevel(sl validator.StructLevel) {
	a := sl.Current().Interface().(Achievement)
	if a.Date.IsZero() {
		sl.ReportError(a.Date, "date", "Date", "required", "")
	}
}
