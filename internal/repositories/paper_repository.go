package repositories

import (
	"context"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// PaperRepository stores generated papers. Papers are immutable after Create.
type PaperRepository interface {
	Create(ctx context.Context, paper *models.Paper) error
	GetByID(ctx context.Context, id string) (*models.Paper, error)
}
