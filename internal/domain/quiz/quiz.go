// Package quiz holds saved quizzes and student responses.
package quiz

import (
	"time"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
)

// DefaultTitle is used when a quiz is saved without a title.
const DefaultTitle = "Untitled Quiz"

// Quiz is a titled set of generated questions.
type Quiz struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	CreatedAt time.Time           `json:"created_at"`
	Questions []question.Question `json:"data"`
}

// Response is one student's submission for a quiz.
type Response struct {
	ID          string             `json:"id"`
	QuizID      string             `json:"quiz_id"`
	StudentName string             `json:"student_name"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Answers     map[string]string  `json:"responses"`
	Scores      map[string]float64 `json:"scores"`
}
