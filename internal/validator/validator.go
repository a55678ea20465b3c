package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with the question-specific rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(structValidator),
	}
}

// ValidateStruct validates struct tags only and returns the raw validator error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures into ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("paper_mode", validatePaperMode)
	validate.RegisterValidation("hint_level", validateHintLevel)

	// Report json names so error fields match request payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validatePaperMode(fl validator.FieldLevel) bool {
	switch models.PaperMode(fl.Field().String()) {
	case models.PaperModeFixed, models.PaperModeEquivalent:
		return true
	}
	return false
}

func validateHintLevel(fl validator.FieldLevel) bool {
	level := fl.Field().Int()
	return level >= 1 && level <= 3
}

type ValidationErrors = apperrors.ValidationErrors
