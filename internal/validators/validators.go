// Package validators registers the request binding tags used by handlers.
package validators

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

// Register adds the hhmm, weekday and phone tags to v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"hhmm":    isClock,
		"weekday": isWeekday,
		"phone":   isPhone,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterWithGin installs the tags on gin's default binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

func isClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 {
		return false
	}
	_, err := domain.ParseClock(s)
	return err == nil
}

func isWeekday(fl validator.FieldLevel) bool {
	return domain.IsWeekday(strings.ToLower(strings.TrimSpace(fl.Field().String())))
}

func isPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return phonePattern.MatchString(s) && digits >= 7
}
