package entity

import (
	"time"

	"github.com/google/uuid"
)

// Question is one standalone Q&A cache entry.
type Question struct {
	Id               uuid.UUID
	QuestionText     string
	ReformulatedText string
	AnswerText       string
	Embedding        []float32
	Lesson           string
	Source           string
	Confidence       float64
	UsageCount       int
	PositiveFeedback int
	NegativeFeedback int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ScoredQuestion pairs a cache entry with its cosine similarity to a query.
type ScoredQuestion struct {
	Question   *Question
	Similarity float64
}

// SearchFilters narrows a question search. Zero values mean no filter.
type SearchFilters struct {
	Lesson        string
	Source        string
	MinConfidence float64
}

// FeedbackCounters is the result of a feedback submission.
type FeedbackCounters struct {
	QuestionId       uuid.UUID
	PositiveFeedback int
	NegativeFeedback int
	FeedbackScore    float64
}
