package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

var (
	// ErrInvalidHabit is returned when habit input fails validation
	ErrInvalidHabit = errors.New("invalid habit")
	// ErrInvalidImport is returned when an import payload is malformed
	ErrInvalidImport = errors.New("invalid import data")
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	if err := validate.RegisterValidation("clock", validateClock); err != nil {
		panic(fmt.Sprintf("failed to register clock validation: %v", err))
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateClock(fl validator.FieldLevel) bool {
	return utils.ValidateTimeFormat(fl.Field().String())
}

// FieldError is a single human-readable validation failure
type FieldError struct {
	Field   string
	Message string
}

// FormatValidationErrors converts validator errors into readable messages.
func FormatValidationErrors(err error) []FieldError {
	var fieldErrors []FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fieldErrors
	}

	for _, fe := range validationErrors {
		var message string
		switch fe.Tag() {
		case "required":
			message = fe.Field() + " is required"
		case "notblank":
			message = fe.Field() + " must not be blank"
		case "max":
			message = fe.Field() + " must be at most " + fe.Param()
		case "min":
			message = fe.Field() + " must be at least " + fe.Param()
		case "oneof":
			message = fe.Field() + " must be one of: " + fe.Param()
		case "hexcolor":
			message = fe.Field() + " must be a hex color like #3b82f6"
		case "clock":
			message = fe.Field() + " must be in HH:MM format"
		default:
			message = fe.Field() + " is invalid"
		}
		fieldErrors = append(fieldErrors, FieldError{Field: fe.Field(), Message: message})
	}

	return fieldErrors
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	fieldErrors := FormatValidationErrors(err)
	if len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidHabit, err)
	}
	messages := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		messages[i] = fe.Message
	}
	return fmt.Errorf("%w: %s", ErrInvalidHabit, strings.Join(messages, "; "))
}

// ValidateHabitInput checks a new habit before it is handed to the tracker.
func ValidateHabitInput(in models.HabitInput) error {
	return wrapValidationError(validate.Struct(in))
}

// ValidateHabitUpdate checks the set fields of a partial habit edit.
func ValidateHabitUpdate(u models.HabitUpdate) error {
	return wrapValidationError(validate.Struct(u))
}
