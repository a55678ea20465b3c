package repositories

import (
	"context"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// QuestionBankRepository stores frozen versions and their questions. Nothing here updates
// or deletes a frozen record.
type QuestionBankRepository interface {
	// CreateVersion writes the version and all of its questions atomically. When a version
	// with the same id already exists nothing is written and created is false.
	CreateVersion(ctx context.Context, version *models.QuestionBankVersion, questions []*models.Question) (created bool, err error)

	GetVersion(ctx context.Context, id string) (*models.QuestionBankVersion, error)
	// LatestVersion returns the most recently frozen version, ErrNotFound when none exists.
	LatestVersion(ctx context.Context) (*models.QuestionBankVersion, error)
	ListVersions(ctx context.Context) ([]*models.QuestionBankVersion, error)

	// ListQuestions returns every question of a version ordered by id.
	ListQuestions(ctx context.Context, versionID string) ([]*models.Question, error)
	GetQuestion(ctx context.Context, versionID, questionID string) (*models.Question, error)
	// GetQuestions returns the questions found among ids, ordered by id. Missing ids are skipped.
	GetQuestions(ctx context.Context, versionID string, ids []string) ([]*models.Question, error)
	// ListGroupMembers returns the members of an isomorphic group ordered by id.
	ListGroupMembers(ctx context.Context, versionID, group string) ([]*models.Question, error)
}
