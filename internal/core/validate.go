package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/mabruk/internal/model"
)

var validate = validator.New()

const maxTextLength = 255

func requireText(field, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if utf8.RuneCountInString(v) > maxTextLength {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, maxTextLength)
	}
	return nil
}

func checkEmail(email string) error {
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return fmt.Errorf("%w: email must be a valid address", ErrValidation)
	}
	return nil
}

// checkOneOf accepts a nil v.
func checkOneOf(field string, v *string, allowed ...string) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s", ErrValidation, field, strings.Join(allowed, ", "))
}

func checkNonNegative(field string, v *int64) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return nil
}

func checkRange(start, end *model.Date) error {
	if !model.DateRangeValid(start, end) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidRange, end, start)
	}
	return nil
}

// trimOptional trims v and drops it when nothing is left.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
