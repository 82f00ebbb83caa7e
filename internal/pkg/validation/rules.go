package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/myuniba/myuniba/internal/app/models"
)

// Custom validation tags used in request DTOs
const (
	TagTerm        = "term"
	TagLetterGrade = "lettergrade"
	TagWeekday     = "weekday"
)

// RegisterRules adds the domain validation tags to v.
func RegisterRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagTerm:        validateTerm,
		TagLetterGrade: validateLetterGrade,
		TagWeekday:     validateWeekday,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

func validateTerm(fl validator.FieldLevel) bool {
	return models.Term(fl.Field().String()).Validate() == nil
}

func validateLetterGrade(fl validator.FieldLevel) bool {
	return models.LetterGrade(fl.Field().String()).Valid()
}

func validateWeekday(fl validator.FieldLevel) bool {
	return models.Weekday(fl.Field().String()).Valid()
}
