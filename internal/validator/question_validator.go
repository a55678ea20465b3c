package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/go-playground/validator/v10"
)

// QuestionValidator checks drafts before they are frozen.
type QuestionValidator struct {
	structValidator *validator.Validate
}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator(structValidator *validator.Validate) *QuestionValidator {
	return &QuestionValidator{structValidator: structValidator}
}

// ValidateDrafts checks every draft and returns one entry per problem found. Each entry's
// Value is the offending draft's id, or "#<index>" when the id itself is missing.
func (v *QuestionValidator) ValidateDrafts(drafts []models.QuestionDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if len(drafts) == 0 {
		return append(errs, *apperrors.NewValidationErrorWithRule("drafts", "must contain at least one question", "min", nil))
	}

	seen := make(map[string]int, len(drafts))
	for i := range drafts {
		d := &drafts[i]
		ref := draftRef(d, i)
		prefix := fmt.Sprintf("drafts[%s].", ref)

		for _, e := range apperrors.ToValidationErrorsWithPrefix(v.structValidator.Struct(d), prefix) {
			e.Value = ref
			errs = append(errs, e)
		}

		if id := strings.TrimSpace(d.ID); id != "" {
			if first, dup := seen[id]; dup {
				errs = append(errs, *apperrors.NewValidationErrorWithRule(prefix+"id",
					fmt.Sprintf("duplicates draft #%d", first), "unique", ref))
			} else {
				seen[id] = i
			}
		}

		for _, e := range v.validateContent(d, prefix) {
			e.Value = ref
			errs = append(errs, e)
		}
	}

	return errs
}

// OffendingDrafts returns the distinct draft references named by errs, in order.
func OffendingDrafts(errs apperrors.ValidationErrors) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, e := range errs {
		ref, ok := e.Value.(string)
		if !ok || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

func (v *QuestionValidator) validateContent(d *models.QuestionDraft, prefix string) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	add := func(field, msg, rule string) {
		errs = append(errs, *apperrors.NewValidationErrorWithRule(prefix+field, msg, rule, nil))
	}

	if strings.TrimSpace(d.Stem) == "" {
		add("stem", "is required", "required")
	}

	switch d.Type {
	case models.MultipleChoice:
		if len(d.Options) < 2 {
			add("options", "must have at least 2 options", "min")
		}

		ids := make(map[string]bool, len(d.Options))
		for _, opt := range d.Options {
			key := strings.ToUpper(strings.TrimSpace(opt.ID))
			if key == "" {
				continue
			}
			if ids[key] {
				add("options", fmt.Sprintf("option id %q is not unique", opt.ID), "unique")
			}
			ids[key] = true
		}

		correct := strings.ToUpper(strings.TrimSpace(d.CorrectAnswer))
		if correct == "" || !ids[correct] {
			add("correct_answer", "must match exactly one option id", "option_id")
		}
	case models.ShortAnswer:
		if strings.TrimSpace(d.CorrectAnswer) == "" {
			add("correct_answer", "is required", "required")
		}
	}

	return errs
}

func draftRef(d *models.QuestionDraft, index int) string {
	if id := strings.TrimSpace(d.ID); id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index)
}
