// Package quiz persists quizzes and responses as JSON values in the KV store.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/arfaouiahmed1/stage/internal/db"
	"github.com/arfaouiahmed1/stage/internal/domain"
	domquiz "github.com/arfaouiahmed1/stage/internal/domain/quiz"
)

// store is the consumer interface for quiz persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/quiz.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a quiz repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) quizKey(id string) string {
	return r.prefix + "quiz:" + id
}

func (r *Repo) responseKey(quizID, id string) string {
	return r.prefix + "response:" + quizID + ":" + id
}

// Save stores a quiz under its ID, overwriting any previous value.
func (r *Repo) Save(ctx context.Context, q domquiz.Quiz) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if err := r.store.Set(ctx, r.quizKey(q.ID), data); err != nil {
		return fmt.Errorf("set quiz %s: %w", q.ID, err)
	}
	return nil
}

// Get retrieves a quiz by ID.
func (r *Repo) Get(ctx context.Context, id string) (domquiz.Quiz, error) {
	data, err := r.store.Get(ctx, r.quizKey(id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return domquiz.Quiz{}, domain.ErrNotFound
	}
	if err != nil {
		return domquiz.Quiz{}, fmt.Errorf("get quiz %s: %w", id, err)
	}
	var q domquiz.Quiz
	if err := json.Unmarshal(data, &q); err != nil {
		return domquiz.Quiz{}, fmt.Errorf("unmarshal quiz %s: %w", id, err)
	}
	return q, nil
}

// Exists reports whether a quiz is stored.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.quizKey(id))
	if err != nil {
		return false, fmt.Errorf("exists quiz %s: %w", id, err)
	}
	return ok, nil
}

// List returns all quizzes, newest first.
func (r *Repo) List(ctx context.Context) ([]domquiz.Quiz, error) {
	quizzes, err := loadAll[domquiz.Quiz](ctx, r.store, r.quizKey("*"))
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	sort.SliceStable(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// SaveResponse stores one student submission.
func (r *Repo) SaveResponse(ctx context.Context, resp domquiz.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if err := r.store.Set(ctx, r.responseKey(resp.QuizID, resp.ID), data); err != nil {
		return fmt.Errorf("set response %s: %w", resp.ID, err)
	}
	return nil
}

// ListResponses returns the submissions for a quiz, oldest first.
func (r *Repo) ListResponses(ctx context.Context, quizID string) ([]domquiz.Response, error) {
	resps, err := loadAll[domquiz.Response](ctx, r.store, r.responseKey(quizID, "*"))
	if err != nil {
		return nil, fmt.Errorf("list responses for %s: %w", quizID, err)
	}
	sort.SliceStable(resps, func(i, j int) bool {
		return resps[i].SubmittedAt.Before(resps[j].SubmittedAt)
	})
	return resps, nil
}

// loadAll scans keys by pattern and decodes every value found.
// Keys removed between SCAN and GET are skipped.
func loadAll[T any](ctx context.Context, s store, pattern string) ([]T, error) {
	keys, err := s.Scan(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []T{}, nil
	}

	values, err := s.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(values))
	for i, data := range values {
		if data == nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", keys[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}
