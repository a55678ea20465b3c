package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// PracticeRepository stores practice sessions.
type PracticeRepository interface {
	Create(ctx context.Context, session *models.PracticeSession) error
	GetByID(ctx context.Context, id string) (*models.PracticeSession, error)
	// SubmitAnswer records the single answer of a session. It returns false when the
	// session was already submitted.
	SubmitAnswer(ctx context.Context, id, answer string, isCorrect bool, at time.Time) (bool, error)
}
