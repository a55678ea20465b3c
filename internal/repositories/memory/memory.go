// Package memory is an in-process implementation of the repositories, used by tests and by
// DATABASE_DRIVER=memory. Records are copied on the way in and out so callers never share
// state with the store.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
)

type versionSnapshot struct {
	version   models.QuestionBankVersion
	questions map[string]models.Question
}

// Store holds every record behind one RWMutex. A freeze swaps a complete snapshot in under
// the write lock, so readers never observe a partial version.
type Store struct {
	mu sync.RWMutex

	versions    map[string]*versionSnapshot
	papers      map[string]models.Paper
	submissions map[string]models.Submission
	items       map[uint]models.SubmissionItem
	practices   map[string]models.PracticeSession
	nextItemID  uint
}

func NewStore() *Store {
	return &Store{
		versions:    make(map[string]*versionSnapshot),
		papers:      make(map[string]models.Paper),
		submissions: make(map[string]models.Submission),
		items:       make(map[uint]models.SubmissionItem),
		practices:   make(map[string]models.PracticeSession),
	}
}

// NewRepository returns a Repository backed by a fresh Store.
func NewRepository() repositories.Repository {
	return NewStore()
}

func (s *Store) QuestionBank() repositories.QuestionBankRepository { return questionBankRepo{s} }
func (s *Store) Paper() repositories.PaperRepository               { return paperRepo{s} }
func (s *Store) Submission() repositories.SubmissionRepository     { return submissionRepo{s} }
func (s *Store) Practice() repositories.PracticeRepository         { return practiceRepo{s} }

// ===== QUESTION BANK =====

type questionBankRepo struct{ s *Store }

func (r questionBankRepo) CreateVersion(_ context.Context, version *models.QuestionBankVersion, questions []*models.Question) (bool, error) {
	snap := &versionSnapshot{
		version:   copyVersion(version),
		questions: make(map[string]models.Question, len(questions)),
	}
	for _, q := range questions {
		snap.questions[q.ID] = copyQuestion(q)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.versions[version.ID]; exists {
		return false, nil
	}
	r.s.versions[version.ID] = snap
	return true, nil
}

func (r questionBankRepo) GetVersion(_ context.Context, id string) (*models.QuestionBankVersion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.versions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := copyVersion(&snap.version)
	return &v, nil
}

func (r questionBankRepo) LatestVersion(ctx context.Context) (*models.QuestionBankVersion, error) {
	versions, _ := r.ListVersions(ctx)
	if len(versions) == 0 {
		return nil, repositories.ErrNotFound
	}
	return versions[0], nil
}

func (r questionBankRepo) ListVersions(_ context.Context) ([]*models.QuestionBankVersion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	versions := make([]*models.QuestionBankVersion, 0, len(r.s.versions))
	for _, snap := range r.s.versions {
		v := copyVersion(&snap.version)
		versions = append(versions, &v)
	}
	sort.Slice(versions, func(i, j int) bool {
		if !versions[i].FrozenAt.Equal(versions[j].FrozenAt) {
			return versions[i].FrozenAt.After(versions[j].FrozenAt)
		}
		return versions[i].ID > versions[j].ID
	})
	return versions, nil
}

func (r questionBankRepo) ListQuestions(_ context.Context, versionID string) ([]*models.Question, error) {
	return r.filter(versionID, func(*models.Question) bool { return true }), nil
}

func (r questionBankRepo) GetQuestion(_ context.Context, versionID, questionID string) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.versions[versionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	q, ok := snap.questions[questionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyQuestion(&q)
	return &out, nil
}

func (r questionBankRepo) GetQuestions(_ context.Context, versionID string, ids []string) ([]*models.Question, error) {
	return r.filter(versionID, func(q *models.Question) bool { return slices.Contains(ids, q.ID) }), nil
}

func (r questionBankRepo) ListGroupMembers(_ context.Context, versionID, group string) ([]*models.Question, error) {
	return r.filter(versionID, func(q *models.Question) bool {
		return q.IsomorphicGroup != nil && *q.IsomorphicGroup == group
	}), nil
}

func (r questionBankRepo) filter(versionID string, keep func(*models.Question) bool) []*models.Question {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.versions[versionID]
	if !ok {
		return nil
	}
	var out []*models.Question
	for _, q := range snap.questions {
		if keep(&q) {
			c := copyQuestion(&q)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ===== PAPERS =====

type paperRepo struct{ s *Store }

func (r paperRepo) Create(_ context.Context, paper *models.Paper) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = time.Now().UTC()
	}
	r.s.papers[paper.ID] = copyPaper(paper)
	return nil
}

func (r paperRepo) GetByID(_ context.Context, id string) (*models.Paper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.papers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyPaper(&p)
	return &out, nil
}

// ===== SUBMISSIONS =====

type submissionRepo struct{ s *Store }

func (r submissionRepo) Create(_ context.Context, submission *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range submission.Items {
		r.s.nextItemID++
		submission.Items[i].ID = r.s.nextItemID
		submission.Items[i].SubmissionID = submission.ID
		r.s.items[submission.Items[i].ID] = copyItem(&submission.Items[i])
	}

	stored := *submission
	stored.Items = nil
	r.s.submissions[submission.ID] = stored
	return nil
}

func (r submissionRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := r.withItems(sub)
	return &out, nil
}

func (r submissionRepo) List(_ context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Submission
	for _, sub := range r.s.submissions {
		if filters.PaperID != "" && sub.PaperID != filters.PaperID {
			continue
		}
		if filters.StudentID != "" && sub.StudentID != filters.StudentID {
			continue
		}
		s := r.withItems(sub)
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return nil, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, nil
}

// withItems must be called with the read lock held.
func (r submissionRepo) withItems(sub models.Submission) models.Submission {
	sub.Items = nil
	for _, item := range r.s.items {
		if item.SubmissionID == sub.ID {
			sub.Items = append(sub.Items, copyItem(&item))
		}
	}
	sort.Slice(sub.Items, func(i, j int) bool { return sub.Items[i].Position < sub.Items[j].Position })
	return sub
}

func (r submissionRepo) GetItem(_ context.Context, itemID uint) (*models.SubmissionItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyItem(&item)
	return &out, nil
}

func (r submissionRepo) SetAnalysis(_ context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error) {
	return r.update(itemID, analysis, func(item *models.SubmissionItem) bool {
		return !item.HasAnalysis()
	})
}

func (r submissionRepo) EscalateAnalysis(_ context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error) {
	return r.update(itemID, analysis, func(item *models.SubmissionItem) bool {
		return item.HasAnalysis() && *item.HintLevel < analysis.HintLevel
	})
}

func (r submissionRepo) update(itemID uint, analysis *models.ItemAnalysis, cond func(*models.SubmissionItem) bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[itemID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if item.IsCorrect || !cond(&item) {
		return false, nil
	}
	item.Apply(analysis)
	r.s.items[itemID] = copyItem(&item)
	return true, nil
}

// ===== PRACTICE =====

type practiceRepo struct{ s *Store }

func (r practiceRepo) Create(_ context.Context, session *models.PracticeSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	r.s.practices[session.ID] = copyPractice(session)
	return nil
}

func (r practiceRepo) GetByID(_ context.Context, id string) (*models.PracticeSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.practices[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyPractice(&p)
	return &out, nil
}

func (r practiceRepo) SubmitAnswer(_ context.Context, id, answer string, isCorrect bool, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.practices[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if p.IsSubmitted() {
		return false, nil
	}
	p.StudentAnswer = &answer
	p.IsCorrect = &isCorrect
	p.SubmittedAt = &at
	r.s.practices[id] = p
	return true, nil
}
