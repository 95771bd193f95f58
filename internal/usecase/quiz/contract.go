package quiz

import (
	"context"

	domquiz "github.com/arfaouiahmed1/stage/internal/domain/quiz"
)

// Repository persists quizzes and their responses.
type Repository interface {
	Save(ctx context.Context, q domquiz.Quiz) error
	Get(ctx context.Context, id string) (domquiz.Quiz, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domquiz.Quiz, error)
	SaveResponse(ctx context.Context, resp domquiz.Response) error
	ListResponses(ctx context.Context, quizID string) ([]domquiz.Response, error)
}
