// Package validation checks user input before it reaches the services.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("hhmm", validateTimeOfDay)
	_ = v.RegisterValidation("dateformat", validateDateFormat)
	_ = v.RegisterValidation("timezone", validateTimezone)
	_ = v.RegisterValidation("weekdays", validateWeekdays)
	v.RegisterStructValidation(validateRecurrence, models.Recurrence{})

	return &Validator{validate: v}
}

// Validate validates a struct and returns ValidationErrors on failure
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	validationErrs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe.Field(), fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}
	return validationErrs
}

// Var validates a single value against a tag string such as "hhmm".
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   field,
			Message: msgForTag(field, fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}
	return out
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, categoryNames())
	case "hhmm":
		return fmt.Sprintf("%s must be a time in HH:MM format", field)
	case "dateformat":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", field)
	case "timezone":
		return fmt.Sprintf("%s must be a valid timezone", field)
	case "weekdays":
		return fmt.Sprintf("%s must list valid days of the week", field)
	case "recurrence":
		return fmt.Sprintf("%s is invalid: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := models.ParseCategory(fl.Field().String())
	return err == nil
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(constants.TimeFormat) {
		return false
	}
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

func validateDateFormat(fl validator.FieldLevel) bool {
	_, err := time.Parse(constants.DateFormat, fl.Field().String())
	return err == nil
}

func validateTimezone(fl validator.FieldLevel) bool {
	return utils.ValidateTimezone(fl.Field().String())
}

func validateWeekdays(fl validator.FieldLevel) bool {
	_, err := utils.ParseWeekdays(fl.Field().String())
	return err == nil
}

// validateRecurrence reports a recurrence that models.Recurrence.Validate rejects.
func validateRecurrence(sl validator.StructLevel) {
	r := sl.Current().Interface().(models.Recurrence)
	if err := r.Validate(); err != nil {
		sl.ReportError(r.Type, "recurrence", "Type", "recurrence", err.Error())
	}
}
