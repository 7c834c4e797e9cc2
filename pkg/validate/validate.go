// Package validate holds the client-side form rules applied before a
// registration or a listing is submitted. Failures use the same
// field → messages shape as the API's 422 responses.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const minPasswordLen = 7

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]+$`)
	namePattern  = regexp.MustCompile(`^[А-Яа-яЁё\s-]+$`)

	once     sync.Once
	instance *validator.Validate
)

// Error lists failed fields keyed by their JSON name.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validator returns the shared validator with the custom tags registered:
// phone, password, cyrname. Each accepts the empty string so that
// "required" alone decides presence.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "phone", emptyOr(Phone))
		mustRegister(v, "password", emptyOr(Password))
		mustRegister(v, "cyrname", emptyOr(Name))
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func emptyOr(rule func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || rule(s)
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

// Struct validates s and returns *Error when any rule fails.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return &Error{Fields: fields}
}

// Fields returns the per-field messages of a validation error, or nil.
func Fields(err error) map[string][]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "may contain only digits and a leading +"
	case "password":
		return fmt.Sprintf("must be at least %d characters with a digit, a lowercase and an uppercase letter", minPasswordLen)
	case "cyrname":
		return "may contain only Cyrillic letters, spaces and hyphens"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// Phone reports whether s is an optional "+" followed by digits.
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}

// Email reports whether s is a valid email address.
func Email(s string) bool {
	return Validator().Var(s, "required,email") == nil
}

// Name reports whether s holds only Cyrillic letters, spaces and hyphens.
func Name(s string) bool {
	return namePattern.MatchString(s)
}

// Password reports whether s has at least 7 characters including a digit,
// a lowercase and an uppercase letter.
func Password(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLen {
		return false
	}
	var digit, lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}
