package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger    utils.Logger
	validator *validator.Validator
}

func NewBaseHandler(logger utils.Logger, v *validator.Validator) BaseHandler {
	return BaseHandler{logger: logger, validator: v}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs an incoming request with the handler's own fields.
func (h *BaseHandler) LogRequest(c *gin.Context, message string, fields ...interface{}) {
	h.log(c).Info(message, append([]interface{}{"remote_addr", c.ClientIP()}, fields...)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details interface{}) {
	if err != nil && statusCode >= http.StatusInternalServerError {
		h.log(c).LogError(err, message, "status_code", statusCode)
	} else {
		h.log(c).Warn(message, "status_code", statusCode, "code", code)
	}
	c.JSON(statusCode, ErrorResponse{Message: message, Details: details, Code: code})
}

// bindJSON decodes the body into req and, when validate is set, checks its tags. It writes
// the 400 response itself and reports whether the handler may continue.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}, validate bool) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Invalid request payload", err, err.Error())
		return false
	}
	if !validate {
		return true
	}
	if err := h.validator.Validate(req); err != nil {
		h.handleServiceError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) parseUintParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Invalid "+param, err, c.Param(param))
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parseStringParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Invalid "+param, nil, "ID cannot be empty")
		return "", false
	}
	return id, true
}

// RequestID tags every request with an id, taken from X-Request-ID when the caller sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), services.RequestIDKey, id))
		c.Next()
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "reproducible-assessment",
	})
}
