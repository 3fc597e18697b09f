// Package validate wires go-playground/validator into echo and adds the
// domain rules the payload schemas need beyond the built-in tag set.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// time12hPattern matches a 12-hour clock reading like "09:30 AM". The hour
// side also tolerates 24-hour digits up to 23 so "13:00 PM" style input from
// legacy records does not bounce; the mandatory AM/PM suffix is what the
// schema actually keys on.
var time12hPattern = regexp.MustCompile(`(?i)^([0-1]?[0-9]|2[0-3]):[0-5][0-9] (AM|PM)$`)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations is the error returned for invalid payloads. Handlers render it
// as a 400 with the field list.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator implements echo.Validator.
type Validator struct {
	inner *validator.Validate
}

// New builds the validator with the custom rule set registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Tag names in violations come from the json tag, not the Go field.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("time12h", func(fl validator.FieldLevel) bool {
		return time12hPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	}))

	return &Validator{inner: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks the struct's validate tags and returns Violations on
// failure so the handler layer can report each field.
func (v *Validator) Validate(i interface{}) error {
	err := v.inner.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(value interface{}, tag string) error {
	return v.inner.Var(value, tag)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "time12h":
		return fmt.Sprintf("%s must be a 12-hour time like \"09:30 AM\"", fe.Field())
	case "date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// IsTime12h reports whether s is a 12-hour clock reading with AM/PM suffix.
func IsTime12h(s string) bool { return time12hPattern.MatchString(s) }

// IsDate reports whether s parses as a calendar date, either bare
// "2006-01-02" or a full RFC 3339 timestamp.
func IsDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	return false
}
