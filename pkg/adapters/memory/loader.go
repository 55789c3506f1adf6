package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/quizpath/pkg/domain"
)

// Loader implements ports.QuestionLoader over an in-memory slice.
type Loader struct {
	questions []domain.Question
}

// NewLoader creates a Loader serving the given questions in order.
// The questions are copied, so later changes by the caller are not seen.
func NewLoader(questions ...domain.Question) *Loader {
	return &Loader{questions: cloneQuestions(questions)}
}

// NewFromJSON creates a Loader from a JSON array of questions.
// This improves DX for tests and fixtures kept as string literals.
func NewFromJSON(data []byte) (*Loader, error) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return &Loader{questions: questions}, nil
}

// Load returns a copy of the stored questions.
func (l *Loader) Load(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneQuestions(l.questions), nil
}

func cloneQuestions(src []domain.Question) []domain.Question {
	if src == nil {
		return nil
	}
	out := make([]domain.Question, len(src))
	for i, q := range src {
		if q.Branches != nil {
			q.Branches = append([]domain.Branch(nil), q.Branches...)
		}
		if q.Metadata != nil {
			meta := make(map[string]string, len(q.Metadata))
			for k, v := range q.Metadata {
				meta[k] = v
			}
			q.Metadata = meta
		}
		out[i] = q
	}
	return out
}
