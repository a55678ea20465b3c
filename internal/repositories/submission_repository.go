package repositories

import (
	"context"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// SubmissionRepository stores graded submissions and the analysis appended to their items.
type SubmissionRepository interface {
	// Create writes the submission and its items in one transaction and assigns item ids.
	Create(ctx context.Context, submission *models.Submission) error
	// GetByID returns the submission with its items ordered by position.
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, error)

	GetItem(ctx context.Context, itemID uint) (*models.SubmissionItem, error)
	// SetAnalysis writes analysis onto an incorrect item that has none yet.
	// It returns false when the item already carries analysis.
	SetAnalysis(ctx context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error)
	// EscalateAnalysis replaces the analysis only when the stored hint level is lower than
	// analysis.HintLevel. It returns false when the condition did not hold.
	EscalateAnalysis(ctx context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error)
}
