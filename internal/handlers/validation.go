package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// earliestRelease is the date of the first public film screening; release
// dates must fall strictly after it.
var earliestRelease = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		mustRegister(validate, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(validate, "nowhitespace", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
		})
		mustRegister(validate, "releasedate", func(fl validator.FieldLevel) bool {
			date, err := time.Parse(dateLayout, fl.Field().String())
			return err == nil && date.After(earliestRelease)
		})
		mustRegister(validate, "notfuture", func(fl validator.FieldLevel) bool {
			date, err := time.Parse(dateLayout, fl.Field().String())
			return err == nil && !date.After(time.Now().UTC())
		})
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

var fieldMessages = map[string]string{
	"required":     "%s is required",
	"notblank":     "%s must not be blank",
	"email":        "%s must be a valid email address",
	"nowhitespace": "%s must not contain whitespace",
	"datetime":     "%s must be a date formatted as YYYY-MM-DD",
	"releasedate":  "%s must be after 1895-12-28",
	"notfuture":    "%s must not be in the future",
}

var paramMessages = map[string]string{
	"max": "%s must be at most %s characters",
	"gt":  "%s must be greater than %s",
}

// validatePayload checks v against its struct tags and returns a single
// message describing every failing field.
func validatePayload(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translateFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

func translateFieldError(fe validator.FieldError) string {
	if template, ok := fieldMessages[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if template, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
