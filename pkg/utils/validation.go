package utils

import (
	"math"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"
)

func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func OnlyDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// RegisterValidators adds the custom tags used by request models:
//
//	mindigits=N  the field must contain at least N decimal digits ("000.000.000-00" has 11)
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("mindigits", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return CountDigits(fl.Field().String()) >= min
	})
}

// ParseID parses a numeric path id. Zero and malformed values are rejected.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
