package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Question bank errors
	ErrVersionNotFound  = errors.New("question bank version not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoVersion        = errors.New("no question bank version has been frozen")

	// Paper and submission errors
	ErrPaperNotFound          = errors.New("paper not found")
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionItemNotFound = errors.New("submission item not found")

	// Practice errors
	ErrPracticeNotFound         = errors.New("practice session not found")
	ErrPracticeAlreadySubmitted = errors.New("practice session already submitted")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// FreezeValidationError reports every invalid draft of a freeze request.
type FreezeValidationError struct {
	DraftIDs []string         `json:"draft_ids"`
	Errors   ValidationErrors `json:"errors"`
}

func (e *FreezeValidationError) Error() string {
	return fmt.Sprintf("invalid drafts: %s", strings.Join(e.DraftIDs, ", "))
}

func (e *FreezeValidationError) Unwrap() error { return e.Errors }

// UnknownQuestionError names question ids absent from the addressed version.
type UnknownQuestionError struct {
	VersionID   string   `json:"version_id"`
	QuestionIDs []string `json:"question_ids"`
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown questions in version %s: %s", e.VersionID, strings.Join(e.QuestionIDs, ", "))
}

// InsufficientQuestionsError is returned when an equivalent-mode topic pool is too small.
type InsufficientQuestionsError struct {
	Topic     string `json:"topic"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Shortfall is the number of questions missing from the pool.
func (e *InsufficientQuestionsError) Shortfall() int {
	return e.Requested - e.Available
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions for topic %q: requested %d, available %d (short by %d)",
		e.Topic, e.Requested, e.Available, e.Shortfall())
}

// InvalidEscalationError rejects a hint level that is lower than the stored one or out of range.
type InvalidEscalationError struct {
	ItemID       uint `json:"item_id"`
	CurrentLevel int  `json:"current_level"`
	Requested    int  `json:"requested_level"`
}

func (e *InvalidEscalationError) Error() string {
	return fmt.Sprintf("invalid hint escalation for item %d: level %d -> %d (levels only increase, maximum 3)",
		e.ItemID, e.CurrentLevel, e.Requested)
}

// NoSiblingError means no isomorphic sibling exists for practice.
type NoSiblingError struct {
	QuestionID string `json:"question_id"`
	Group      string `json:"isomorphic_group,omitempty"`
}

func (e *NoSiblingError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("question %s has no isomorphic group", e.QuestionID)
	}
	return fmt.Sprintf("isomorphic group %s has no other member than question %s", e.Group, e.QuestionID)
}

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	StudentID  string `json:"student_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: student %s cannot %s %s %s",
		pe.StudentID, pe.Action, pe.Resource, pe.ResourceID)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(studentID, resourceID, resource, action string) *PermissionError {
	return &PermissionError{
		StudentID:  studentID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrPaperNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrSubmissionItemNotFound) ||
		errors.Is(err, ErrPracticeNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsPermission checks if error represents an ownership violation
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPracticeAlreadySubmitted)
}

// IsDomainRejection checks if error is one of the typed rejections of a well-formed request
func IsDomainRejection(err error) bool {
	var (
		unknown      *UnknownQuestionError
		insufficient *InsufficientQuestionsError
		escalation   *InvalidEscalationError
		sibling      *NoSiblingError
	)
	return errors.As(err, &unknown) ||
		errors.As(err, &insufficient) ||
		errors.As(err, &escalation) ||
		errors.As(err, &sibling)
}
