package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type contextKey string

// RequestIDKey is the context key under which handlers store the request id.
const RequestIDKey contextKey = "request_id"

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, resourceType, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err) || IsDomainRejection(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsPermission(err):
			level = slog.LevelWarn
			status = "forbidden"
		case IsNotFound(err) || errors.Is(err, ErrNoVersion):
			status = "not_found"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_type", resourceType),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		var businessErr *BusinessRuleError
		var freezeErr *FreezeValidationError
		switch {
		case errors.As(err, &freezeErr):
			attrs = append(attrs, slog.Any("draft_ids", freezeErr.DraftIDs))
		case errors.As(err, &validationErr):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		case errors.As(err, &businessErr):
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		}
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogRecovery(ctx context.Context, operation string, recovered interface{}, stack []byte) {
	l.logger.LogAttrs(ctx, slog.LevelError, "Panic recovered",
		slog.String("operation", operation),
		slog.Any("panic_value", recovered),
		slog.String("stack_trace", string(stack)),
	)
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger times one operation and logs its outcome
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceType, resourceID string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, resourceType, resourceID, time.Since(cl.startTime), err)
}

// ===== ERROR FORMATTING HELPERS =====

// FormatError describes err as a flat map for structured responses and logs.
func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var (
		freezeErr       *FreezeValidationError
		validationErr   ValidationErrors
		businessErr     *BusinessRuleError
		permErr         *PermissionError
		unknownErr      *UnknownQuestionError
		insufficientErr *InsufficientQuestionsError
		escalationErr   *InvalidEscalationError
		siblingErr      *NoSiblingError
	)

	switch {
	case errors.As(err, &freezeErr):
		result["type"] = "validation"
		result["draft_ids"] = freezeErr.DraftIDs
		result["errors"] = freezeErr.Errors
	case errors.As(err, &validationErr):
		result["type"] = "validation"
		result["count"] = len(validationErr)
		result["errors"] = validationErr
	case errors.As(err, &unknownErr):
		result["type"] = "unknown_question"
		result["version_id"] = unknownErr.VersionID
		result["question_ids"] = unknownErr.QuestionIDs
	case errors.As(err, &insufficientErr):
		result["type"] = "insufficient_questions"
		result["topic"] = insufficientErr.Topic
		result["requested"] = insufficientErr.Requested
		result["available"] = insufficientErr.Available
		result["shortfall"] = insufficientErr.Shortfall()
	case errors.As(err, &escalationErr):
		result["type"] = "invalid_escalation"
		result["current_level"] = escalationErr.CurrentLevel
		result["requested_level"] = escalationErr.Requested
	case errors.As(err, &siblingErr):
		result["type"] = "no_sibling"
		result["question_id"] = siblingErr.QuestionID
	case errors.As(err, &businessErr):
		result["type"] = "business_rule"
		result["rule"] = businessErr.Rule
		result["context"] = businessErr.Context
	case errors.As(err, &permErr):
		result["type"] = "permission"
		result["resource"] = permErr.Resource
		result["action"] = permErr.Action
	case errors.Is(err, ErrNoVersion):
		result["type"] = "no_version"
	case IsNotFound(err):
		result["type"] = "not_found"
	case IsConflict(err):
		result["type"] = "conflict"
	}

	return result
}
