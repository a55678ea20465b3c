package repositories

import (
	"errors"
)

// ErrNotFound is returned by every repository when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is (or wraps) ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repository groups the stores the services depend on.
type Repository interface {
	QuestionBank() QuestionBankRepository
	Paper() PaperRepository
	Submission() SubmissionRepository
	Practice() PracticeRepository
}

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	PaperID   string `json:"paper_id"`
	StudentID string `json:"student_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}
