package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

var resultHeaders = []interface{}{
	"Submission ID", "Student ID", "Position", "Question ID", "Student Answer", "Is Correct",
	"Score", "Error Type", "Hint Level", "Analysis Source", "Submitted At",
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportPaperResults writes one row per submission item of every submission of the paper.
func (s *exportService) ExportPaperResults(ctx context.Context, paperID string) (*bytes.Buffer, error) {
	if _, err := s.repo.Paper().GetByID(ctx, paperID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}

	submissions, err := s.repo.Submission().List(ctx, repositories.SubmissionFilters{PaperID: paperID})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &resultHeaders); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	row := 2
	for _, submission := range submissions {
		for i := range submission.Items {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			values := resultRow(submission, &submission.Items[i])
			if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write Excel row %d: %w", row, err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported paper results", "paper_id", paperID, "submissions", len(submissions), "rows", row-2)
	return buf, nil
}

func resultRow(submission *models.Submission, item *models.SubmissionItem) []interface{} {
	var errorType, source string
	var hintLevel interface{}
	if a := item.Analysis(); a != nil {
		errorType = a.ErrorType
		source = string(a.Source)
		hintLevel = a.HintLevel
	}
	return []interface{}{
		submission.ID,
		submission.StudentID,
		item.Position,
		item.QuestionID,
		item.StudentAnswer,
		item.IsCorrect,
		item.Score,
		errorType,
		hintLevel,
		source,
		submission.SubmittedAt.Format(time.RFC3339),
	}
}
