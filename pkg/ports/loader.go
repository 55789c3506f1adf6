package ports

import (
	"context"

	"github.com/aretw0/quizpath/pkg/domain"
)

// QuestionLoader defines how the engine retrieves question definitions.
// This allows the source (Loam, a single file, memory) to be decoupled.
type QuestionLoader interface {
	// Load returns every question in declaration order. The slice is
	// compiled and validated by the caller, so loaders only decode.
	Load(ctx context.Context) ([]domain.Question, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the id of each changed document.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
