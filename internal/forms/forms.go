// Package forms holds form descriptions and input validation shared by the
// catalog, blog, contact and user modules.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Widget string

const (
	WidgetText     Widget = "text"
	WidgetTextarea Widget = "textarea"
	WidgetNumber   Widget = "number"
	WidgetEmail    Widget = "email"
	WidgetSelect   Widget = "select"
	WidgetCheckbox Widget = "checkbox"
	WidgetFile     Widget = "file"
	WidgetPassword Widget = "password"
)

// Field describes one input of a form as sent to the client.
type Field struct {
	Name   string            `json:"name"`
	Label  string            `json:"label"`
	Widget Widget            `json:"widget"`
	Value  any               `json:"value,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// Decorate sets the CSS class of every field: checkboxes get
// "form-check-input", everything else "form-control".
func Decorate(fields []Field) []Field {
	for i := range fields {
		if fields[i].Attrs == nil {
			fields[i].Attrs = map[string]string{}
		}
		if fields[i].Widget == WidgetCheckbox {
			fields[i].Attrs["class"] = "form-check-input"
		} else {
			fields[i].Attrs["class"] = "form-control"
		}
	}
	return fields
}

// Errors maps a field name to its error message. A non-empty Errors value is
// the validation error returned by services.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when there are no field errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// CheckForbiddenWords reports the first word of words contained in value,
// compared case-insensitively.
func CheckForbiddenWords(value string, words []string) (string, bool) {
	lower := strings.ToLower(value)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

// ForbiddenWordMessage is the field error used when a forbidden word is found.
func ForbiddenWordMessage(word string) string {
	return fmt.Sprintf("contains a forbidden word: %q", word)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs the `validate` struct tags of v and converts failures into
// Errors keyed by the field's json name.
func Validate(v any) Errors {
	errs := Errors{}
	err := validate.Struct(v)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return "ensure this value has at most " + fe.Param() + " characters"
	case "min":
		return "ensure this value has at least " + fe.Param() + " characters"
	default:
		return "invalid value"
	}
}
