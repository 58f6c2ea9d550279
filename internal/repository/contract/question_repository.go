package contract

import (
	"context"

	"ai-tutoring-be/internal/entity"

	"github.com/google/uuid"
)

// QuestionRepository is the typed wrapper around the questions
// collection of the vector store.
type QuestionRepository interface {
	// SearchSimilar returns entries ordered by descending cosine
	// similarity, empty when nothing scores at or above threshold.
	SearchSimilar(ctx context.Context, embedding []float32, topK int, threshold float64, filters *entity.SearchFilters) ([]*entity.ScoredQuestion, error)

	Create(ctx context.Context, question *entity.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Question, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	AddFeedback(ctx context.Context, id uuid.UUID, positive bool) (*entity.FeedbackCounters, error)
	Count(ctx context.Context) (int64, error)
}
