// Package quiz saves generated questions as quizzes and records student responses.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	domquiz "github.com/arfaouiahmed1/stage/internal/domain/quiz"
)

// Service handles quiz persistence. A nil repository disables it.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a quiz service. repo may be nil when no database is configured.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Enabled reports whether a repository is configured.
func (s *Service) Enabled() bool { return s.repo != nil }

// Save stores questions as a new quiz.
func (s *Service) Save(ctx context.Context, title string, questions []question.Question) (domquiz.Quiz, error) {
	if s.repo == nil {
		return domquiz.Quiz{}, domain.ErrNotImplemented
	}
	if len(questions) == 0 {
		return domquiz.Quiz{}, fmt.Errorf("%w: quiz must contain at least one question", domain.ErrInvalidRequest)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = domquiz.DefaultTitle
	}

	q := domquiz.Quiz{
		ID:        "quiz_" + s.newID(),
		Title:     title,
		CreatedAt: s.now(),
		Questions: questions,
	}
	if err := s.repo.Save(ctx, q); err != nil {
		return domquiz.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	return q, nil
}

// Get returns a quiz by ID.
func (s *Service) Get(ctx context.Context, id string) (domquiz.Quiz, error) {
	if s.repo == nil {
		return domquiz.Quiz{}, domain.ErrNotImplemented
	}
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return domquiz.Quiz{}, fmt.Errorf("get quiz %s: %w", id, err)
	}
	return q, nil
}

// List returns all quizzes, newest first.
func (s *Service) List(ctx context.Context) ([]domquiz.Quiz, error) {
	if s.repo == nil {
		return nil, domain.ErrNotImplemented
	}
	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// SaveResponses records a student's answers for an existing quiz.
func (s *Service) SaveResponses(
	ctx context.Context,
	quizID, student string,
	answers map[string]string,
	scores map[string]float64,
) (domquiz.Response, error) {
	if s.repo == nil {
		return domquiz.Response{}, domain.ErrNotImplemented
	}
	student = strings.TrimSpace(student)
	if student == "" {
		return domquiz.Response{}, fmt.Errorf("%w: student_name is required", domain.ErrInvalidRequest)
	}

	ok, err := s.repo.Exists(ctx, quizID)
	if err != nil {
		return domquiz.Response{}, fmt.Errorf("check quiz %s: %w", quizID, err)
	}
	if !ok {
		return domquiz.Response{}, fmt.Errorf("quiz %s: %w", quizID, domain.ErrNotFound)
	}

	if answers == nil {
		answers = map[string]string{}
	}
	if scores == nil {
		scores = map[string]float64{}
	}
	resp := domquiz.Response{
		ID:          s.newID(),
		QuizID:      quizID,
		StudentName: student,
		SubmittedAt: s.now(),
		Answers:     answers,
		Scores:      scores,
	}
	if err := s.repo.SaveResponse(ctx, resp); err != nil {
		return domquiz.Response{}, fmt.Errorf("save response: %w", err)
	}
	return resp, nil
}

// ListResponses returns the responses for a quiz, oldest first.
func (s *Service) ListResponses(ctx context.Context, quizID string) ([]domquiz.Response, error) {
	if s.repo == nil {
		return nil, domain.ErrNotImplemented
	}
	ok, err := s.repo.Exists(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("check quiz %s: %w", quizID, err)
	}
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, domain.ErrNotFound)
	}
	resps, err := s.repo.ListResponses(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return resps, nil
}
