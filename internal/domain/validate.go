package domain

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/contactrelay/contact-api/internal/errors"
)

// Deliberately approximate: keeps false negatives low instead of chasing
// the full address grammar.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Validator checks a normalized Submission against its constraints.
// Pure: no side effects, safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Never returns an error for a valid tag name and function.
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns nil or a *errors.ValidationError describing the first
// failed constraint in field order.
func (v *Validator) Validate(s *Submission) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &apperrors.ValidationError{Message: "Invalid submission"}
	}
	return translate(fieldErrs[0])
}

func translate(fe validator.FieldError) *apperrors.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
		}
	case "contact_email":
		return &apperrors.ValidationError{
			Field:   field,
			Message: "Please provide a valid email address",
		}
	case "max":
		return &apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %s characters", field, fe.Param()),
		}
	default:
		return &apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is invalid", field),
		}
	}
}
