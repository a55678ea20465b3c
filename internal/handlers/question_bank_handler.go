package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/reproducible-assessment/internal/drafts"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

// maxUploadSize caps draft uploads.
const maxUploadSize = 10 << 20

type QuestionBankHandler struct {
	BaseHandler
	service services.QuestionBankService
}

func NewQuestionBankHandler(service services.QuestionBankService, v *validator.Validator, logger utils.Logger) *QuestionBankHandler {
	return &QuestionBankHandler{
		BaseHandler: NewBaseHandler(logger, v),
		service:     service,
	}
}

// Freeze freezes a JSON draft set
// @Summary Freeze question bank
// @Tags question-bank
// @Accept json
// @Produce json
// @Param request body services.FreezeRequest true "Drafts"
// @Success 201 {object} services.FreezeResult
// @Success 200 {object} services.FreezeResult "content already frozen"
// @Failure 400 {object} ErrorResponse
// @Router /question-bank/freeze [post]
func (h *QuestionBankHandler) Freeze(c *gin.Context) {
	var req services.FreezeRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	h.LogRequest(c, "Freezing question bank", "drafts", len(req.Drafts))
	h.freeze(c, req.Drafts, req.Description)
}

// FreezeUpload freezes a draft file sent as multipart field "file"
// @Summary Freeze question bank from a file
// @Tags question-bank
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Draft file (.json, .yaml, .yml, .xlsx, .csv)"
// @Param description formData string false "Version description"
// @Success 201 {object} services.FreezeResult
// @Failure 400 {object} ErrorResponse
// @Router /question-bank/freeze/upload [post]
func (h *QuestionBankHandler) FreezeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "A draft file is required in field \"file\"", err, err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, codeValidation, "Unable to read the uploaded file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Freezing question bank from upload", "filename", header.Filename, "size", header.Size)

	loaded, err := drafts.Load(header.Filename, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.freeze(c, loaded, c.PostForm("description"))
}

func (h *QuestionBankHandler) freeze(c *gin.Context, set []models.QuestionDraft, description string) {
	version, created, err := h.service.Freeze(c.Request.Context(), set, description)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, services.FreezeResult{Version: version, Created: created})
}

func (h *QuestionBankHandler) ListVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if versions == nil {
		versions = []*models.QuestionBankVersion{}
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (h *QuestionBankHandler) LatestVersion(c *gin.Context) {
	version, err := h.service.LatestVersion(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *QuestionBankHandler) GetVersion(c *gin.Context) {
	versionID, ok := h.parseStringParam(c, "version_id")
	if !ok {
		return
	}

	version, err := h.service.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// GetQuestion returns the student view of one frozen question.
func (h *QuestionBankHandler) GetQuestion(c *gin.Context) {
	versionID, ok := h.parseStringParam(c, "version_id")
	if !ok {
		return
	}
	questionID, ok := h.parseStringParam(c, "question_id")
	if !ok {
		return
	}

	question, err := h.service.GetQuestion(c.Request.Context(), versionID, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}
