package handlers

import (
	"github.com/SAP-F-2025/reproducible-assessment/internal/metrics"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionBankHandler *QuestionBankHandler
	paperHandler        *PaperHandler
	submissionHandler   *SubmissionHandler
	practiceHandler     *PracticeHandler
	logger              utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionBankHandler: NewQuestionBankHandler(serviceManager.QuestionBank(), validator, logger),
		paperHandler:        NewPaperHandler(serviceManager.Paper(), serviceManager.Submission(), serviceManager.Export(), validator, logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), serviceManager.Analysis(), validator, logger),
		practiceHandler:     NewPracticeHandler(serviceManager.Practice(), validator, logger),
		logger:              logger,
	}
}

// SetupRoutes installs the middleware chain and every route on router.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(
		gin.Recovery(),
		RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		metrics.MetricsMiddleware(),
	)

	router.GET("/health", HealthCheck)
	router.GET("/metrics", metrics.PrometheusHandler())

	v1 := router.Group("/api/v1")
	{
		bank := v1.Group("/question-bank")
		{
			bank.POST("/freeze", hm.questionBankHandler.Freeze)
			bank.POST("/freeze/upload", hm.questionBankHandler.FreezeUpload)
			bank.GET("/versions", hm.questionBankHandler.ListVersions)
			bank.GET("/versions/latest", hm.questionBankHandler.LatestVersion)
			bank.GET("/versions/:version_id", hm.questionBankHandler.GetVersion)
			bank.GET("/versions/:version_id/questions/:question_id", hm.questionBankHandler.GetQuestion)
		}

		papers := v1.Group("/papers")
		{
			papers.POST("", hm.paperHandler.CreatePaper)
			papers.GET("/:paper_id", hm.paperHandler.GetPaper)
			papers.POST("/:paper_id/submissions", hm.paperHandler.Submit)
			papers.GET("/:paper_id/submissions/export", hm.paperHandler.ExportResults)
		}

		submissions := v1.Group("/submissions")
		{
			submissions.GET("/:submission_id", hm.submissionHandler.GetSubmission)
			submissions.POST("/items/:item_id/hint", hm.submissionHandler.UpgradeHint)
		}

		practices := v1.Group("/practices")
		{
			practices.POST("", hm.practiceHandler.CreatePractice)
			practices.POST("/:practice_id/submit", hm.practiceHandler.SubmitPractice)
		}
	}
}
