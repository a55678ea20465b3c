package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	codeValidation    = "VALIDATION_ERROR"
	codeNotFound      = "NOT_FOUND"
	codeNoVersion     = "NO_VERSION"
	codeUnknown       = "UNKNOWN_QUESTION"
	codeInsufficient  = "INSUFFICIENT_QUESTIONS"
	codeEscalation    = "INVALID_ESCALATION"
	codeNoSibling     = "NO_SIBLING"
	codeBusinessRule  = "BUSINESS_RULE"
	codeForbidden     = "FORBIDDEN"
	codeConflict      = "CONFLICT"
	codeInternalError = "INTERNAL_ERROR"
)

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var (
		freezeErr       *services.FreezeValidationError
		validationErrs  apperrors.ValidationErrors
		validationErr   *apperrors.ValidationError
		unknownErr      *services.UnknownQuestionError
		insufficientErr *services.InsufficientQuestionsError
		escalationErr   *services.InvalidEscalationError
		siblingErr      *services.NoSiblingError
		businessErr     *services.BusinessRuleError
		permissionErr   *services.PermissionError
	)

	switch {
	case errors.As(err, &freezeErr):
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Invalid drafts", err, freezeErr)
	case errors.As(err, &validationErrs):
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Validation failed", err, validationErrs)
	case errors.As(err, &validationErr):
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Validation failed", err, apperrors.ValidationErrors{*validationErr})

	case errors.Is(err, services.ErrNoVersion):
		h.RespondWithError(c, http.StatusNotFound, codeNoVersion, "No question bank version has been frozen", err, nil)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, codeNotFound, notFoundMessage(err), err, nil)

	case errors.As(err, &unknownErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, codeUnknown, "Unknown question ids", err, unknownErr)
	case errors.As(err, &insufficientErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, codeInsufficient, "Not enough questions for topic", err, gin.H{
			"topic":     insufficientErr.Topic,
			"requested": insufficientErr.Requested,
			"available": insufficientErr.Available,
			"shortfall": insufficientErr.Shortfall(),
		})
	case errors.As(err, &escalationErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, codeEscalation, "Hint level can only increase up to 3", err, escalationErr)
	case errors.As(err, &siblingErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, codeNoSibling, "No practice question is available", err, siblingErr)
	case errors.As(err, &businessErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, codeBusinessRule, businessErr.Message, err, gin.H{
			"rule":    businessErr.Rule,
			"context": businessErr.Context,
		})

	case errors.As(err, &permissionErr):
		h.RespondWithError(c, http.StatusForbidden, codeForbidden, "Access denied", err, gin.H{
			"resource": permissionErr.Resource,
			"action":   permissionErr.Action,
		})
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, codeConflict, err.Error(), err, nil)

	default:
		h.RespondWithError(c, http.StatusInternalServerError, codeInternalError, "Internal server error", err, nil)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrVersionNotFound):
		return "Question bank version not found"
	case errors.Is(err, services.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, services.ErrPaperNotFound):
		return "Paper not found"
	case errors.Is(err, services.ErrSubmissionNotFound):
		return "Submission not found"
	case errors.Is(err, services.ErrSubmissionItemNotFound):
		return "Submission item not found"
	case errors.Is(err, services.ErrPracticeNotFound):
		return "Practice session not found"
	default:
		return "Resource not found"
	}
}
