// Package forms holds the HTML form payloads and validates them into
// per-field error messages that templates can render next to each input.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// First returns the first message for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msgs := range fe {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

type RegisterForm struct {
	Username        string `form:"username" validate:"notblank,min=3,max=80"`
	Password        string `form:"password" validate:"notblank,min=6,maxbytes=72"`
	ConfirmPassword string `form:"confirm_password" validate:"notblank,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" validate:"notblank"`
	Password string `form:"password" validate:"notblank"`
}

type AddPostForm struct {
	Title string `form:"title" validate:"notblank,max=100"`
	Text  string `form:"text" validate:"notblank"`
}

type MessageForm struct {
	Content string `form:"content" validate:"notblank,max=500"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})
	return validate
}

// Validate checks form and returns nil or a FieldErrors keyed by form field name.
func Validate(form interface{}) FieldErrors {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_form": {err.Error()}}
	}

	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "notblank", "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", e.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
	case "maxbytes":
		return fmt.Sprintf("Field cannot be longer than %s bytes.", e.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", strings.ToLower(e.Param()))
	default:
		return "Invalid value."
	}
}
