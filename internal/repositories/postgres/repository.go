package postgres

import (
	"errors"

	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed store. The same code serves PostgreSQL and MySQL.
type Repository struct {
	questionBank repositories.QuestionBankRepository
	paper        repositories.PaperRepository
	submission   repositories.SubmissionRepository
	practice     repositories.PracticeRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		questionBank: NewQuestionBankPostgreSQL(db),
		paper:        NewPaperPostgreSQL(db),
		submission:   NewSubmissionPostgreSQL(db),
		practice:     NewPracticePostgreSQL(db),
	}
}

func (r *Repository) QuestionBank() repositories.QuestionBankRepository { return r.questionBank }
func (r *Repository) Paper() repositories.PaperRepository               { return r.paper }
func (r *Repository) Submission() repositories.SubmissionRepository     { return r.submission }
func (r *Repository) Practice() repositories.PracticeRepository         { return r.practice }

// translateError maps gorm's not-found error onto repositories.ErrNotFound.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
