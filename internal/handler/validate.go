package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of the "errors" array in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fallback messages by rule when a field has no msg tag.
var ruleMessages = map[string]string{
	"required": "این فیلد الزامی است",
	"email":    "ایمیل معتبر وارد کنید",
	"min":      "مقدار وارد شده کوتاه‌تر از حد مجاز است",
	"max":      "مقدار وارد شده بیشتر از حد مجاز است",
	"url":      "آدرس اینترنتی معتبر وارد کنید",
	"oneof":    "مقدار انتخاب‌شده مجاز نیست",
}

// Validator adapts go-playground/validator to echo.Validator.  Field names
// in errors follow the json tags; messages come from the msg tag of the
// struct field, falling back to a per-rule message.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = ruleMessages[fe.Tag()]
		}
		if msg == "" {
			msg = msgInvalidInput
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
