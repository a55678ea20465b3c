package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaperHandler struct {
	BaseHandler
	papers      services.PaperService
	submissions services.SubmissionService
	export      services.ExportService
}

func NewPaperHandler(papers services.PaperService, submissions services.SubmissionService, export services.ExportService, v *validator.Validator, logger utils.Logger) *PaperHandler {
	return &PaperHandler{
		BaseHandler: NewBaseHandler(logger, v),
		papers:      papers,
		submissions: submissions,
		export:      export,
	}
}

// CreatePaper generates a paper
// @Summary Create paper
// @Description Fixed mode keeps the given question order; equivalent mode draws per topic with a recorded seed
// @Tags papers
// @Accept json
// @Produce json
// @Param request body services.CreatePaperRequest true "Paper request"
// @Success 201 {object} services.PaperResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /papers [post]
func (h *PaperHandler) CreatePaper(c *gin.Context) {
	var req services.CreatePaperRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Creating paper", "student_id", req.StudentID, "mode", req.Mode)

	paper, err := h.papers.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paper)
}

func (h *PaperHandler) GetPaper(c *gin.Context) {
	paperID, ok := h.parseStringParam(c, "paper_id")
	if !ok {
		return
	}

	paper, err := h.papers.GetPaper(c.Request.Context(), paperID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

// Submit grades a full answer sheet for the paper
// @Summary Submit answers
// @Tags submissions
// @Accept json
// @Produce json
// @Param paper_id path string true "Paper ID"
// @Param request body services.SubmitRequest true "Answers keyed by question id"
// @Success 201 {object} services.SubmissionReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /papers/{paper_id}/submissions [post]
func (h *PaperHandler) Submit(c *gin.Context) {
	paperID, ok := h.parseStringParam(c, "paper_id")
	if !ok {
		return
	}
	var req services.SubmitRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Submitting answers", "paper_id", paperID, "student_id", req.StudentID, "answers", len(req.Answers))

	report, err := h.submissions.Submit(c.Request.Context(), paperID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ExportResults downloads every graded item of the paper as a workbook.
func (h *PaperHandler) ExportResults(c *gin.Context) {
	paperID, ok := h.parseStringParam(c, "paper_id")
	if !ok {
		return
	}

	buf, err := h.export.ExportPaperResults(c.Request.Context(), paperID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "paper-"+paperID+"-results.xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
