package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	BaseHandler
	submissions services.SubmissionService
	analysis    services.AnalysisDispatcher
}

func NewSubmissionHandler(submissions services.SubmissionService, analysis services.AnalysisDispatcher, v *validator.Validator, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger, v),
		submissions: submissions,
		analysis:    analysis,
	}
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submissionID, ok := h.parseStringParam(c, "submission_id")
	if !ok {
		return
	}

	report, err := h.submissions.GetSubmission(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpgradeHint raises the hint level of an incorrect item
// @Summary Escalate hint
// @Description Levels only increase; re-requesting the current level returns the stored analysis
// @Tags submissions
// @Accept json
// @Produce json
// @Param item_id path uint true "Submission item ID"
// @Param request body services.HintRequest true "Requested level"
// @Success 200 {object} models.ItemAnalysis
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /submissions/items/{item_id}/hint [post]
func (h *SubmissionHandler) UpgradeHint(c *gin.Context) {
	itemID, ok := h.parseUintParam(c, "item_id")
	if !ok {
		return
	}
	var req services.HintRequest
	if !h.bindJSON(c, &req, true) {
		return
	}

	h.LogRequest(c, "Escalating hint", "item_id", itemID, "hint_level", req.HintLevel)

	result, err := h.analysis.UpgradeHint(c.Request.Context(), itemID, req.StudentID, req.HintLevel)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
