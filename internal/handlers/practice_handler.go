package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

type PracticeHandler struct {
	BaseHandler
	service services.PracticeService
}

func NewPracticeHandler(service services.PracticeService, v *validator.Validator, logger utils.Logger) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler: NewBaseHandler(logger, v),
		service:     service,
	}
}

// CreatePractice opens a retry on a sibling of an incorrectly answered question
// @Summary Start practice
// @Tags practices
// @Accept json
// @Produce json
// @Param request body services.PracticeRequest true "Original item"
// @Success 201 {object} services.PracticeResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /practices [post]
func (h *PracticeHandler) CreatePractice(c *gin.Context) {
	var req services.PracticeRequest
	if !h.bindJSON(c, &req, true) {
		return
	}

	h.LogRequest(c, "Creating practice", "student_id", req.StudentID, "item_id", req.OriginalSubmissionItem)

	practice, err := h.service.CreatePractice(c.Request.Context(), req.StudentID, req.OriginalSubmissionItem)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, practice)
}

func (h *PracticeHandler) SubmitPractice(c *gin.Context) {
	practiceID, ok := h.parseStringParam(c, "practice_id")
	if !ok {
		return
	}
	var req services.PracticeSubmitRequest
	if !h.bindJSON(c, &req, true) {
		return
	}

	result, err := h.service.SubmitPractice(c.Request.Context(), practiceID, req.StudentID, req.Answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
