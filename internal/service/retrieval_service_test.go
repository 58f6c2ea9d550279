package service

import (
	"context"
	"errors"
	"testing"

	"ai-tutoring-be/internal/config"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Tiers: config.TierConfig{
			Tier1Threshold: 0.85,
			Tier2Threshold: 0.70,
			Tier3Threshold: 0.50,
			CacheTopK:      5,
		},
		Tutoring: config.TutoringConfig{
			Enabled:        true,
			MaxDepth:       5,
			CacheThreshold: 0.85,
		},
		Session: config.SessionConfig{
			TTLSeconds:             3600,
			MaxHistory:             50,
			CleanupIntervalSeconds: 300,
		},
		SmallLLM:  config.ModelConfig{Temperature: 0.7, TopP: 0.9},
		FineTuned: config.ModelConfig{Temperature: 0.7, TopP: 0.9},
		LargeLLM:  config.ModelConfig{Temperature: 0.7, TopP: 0.9},
	}
}

type retrievalFixture struct {
	repo      *mockQuestionRepo
	embedder  *mockEmbedder
	smallLLM  *mockLLM
	fineTuned *mockLLM
	largeLLM  *mockLLM
	service   *RetrievalService
}

func newRetrievalFixture() *retrievalFixture {
	f := &retrievalFixture{
		repo:      new(mockQuestionRepo),
		embedder:  new(mockEmbedder),
		smallLLM:  new(mockLLM),
		fineTuned: new(mockLLM),
		largeLLM:  new(mockLLM),
	}
	f.service = NewRetrievalService(f.repo, f.embedder, f.smallLLM, f.fineTuned, f.largeLLM, testConfig(), logger.NewNopLogger())
	return f
}

func scored(similarity float64, question, answer string) *entity.ScoredQuestion {
	return &entity.ScoredQuestion{
		Question: &entity.Question{
			Id:           uuid.New(),
			QuestionText: question,
			AnswerText:   answer,
		},
		Similarity: similarity,
	}
}

func TestDetermineTier(t *testing.T) {
	f := newRetrievalFixture()

	cases := []struct {
		name       string
		confidence float64
		want       string
	}{
		{"well above tier1", 0.95, "tier1_validate"},
		{"exactly tier1", 0.85, "tier1_validate"},
		{"just below tier1", 0.8499, "tier2_context"},
		{"exactly tier2", 0.70, "tier2_context"},
		{"just below tier2", 0.6999, "tier3_fine_tuned"},
		{"exactly tier3", 0.50, "tier3_fine_tuned"},
		{"just below tier3", 0.4999, "tier4_large_llm"},
		{"zero", 0.0, "tier4_large_llm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.service.determineTier(tc.confidence))
		})
	}
}

func TestStripThink(t *testing.T) {
	assert.Equal(t, "answer", stripThink("<think>reasoning here</think>answer"))
	assert.Equal(t, "before", stripThink("before<think>unterminated"))
	assert.Equal(t, "plain text", stripThink("plain text"))
	assert.Equal(t, "final", stripThink("<think>a</think>middle</think>final"))
}

func TestRetrieveAnswerTier1CacheValid(t *testing.T) {
	f := newRetrievalFixture()
	top := scored(0.92, "What is 2+2?", "4")

	f.embedder.On("Embed", mock.Anything, "what is 2+2").Return([]float32{0.1, 0.2}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{top}, nil)
	f.smallLLM.On("Chat", mock.Anything, mock.Anything).Return("CACHE_VALID\n4", nil)
	f.repo.On("IncrementUsage", mock.Anything, top.Question.Id).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "what is 2+2", "")
	require.NoError(t, err)

	assert.Equal(t, "4", result.Answer)
	assert.Equal(t, "tier1_validate_cache_reused", result.Source)
	assert.True(t, result.UsedCache)
	require.NotNil(t, result.CacheReused)
	assert.True(t, *result.CacheReused)
	require.NotNil(t, result.QuestionId)
	assert.Equal(t, top.Question.Id, *result.QuestionId)

	// A reused answer must never be written back.
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.largeLLM.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestRetrieveAnswerTier1CacheValidEmptyBodyFallsBackToCachedAnswer(t *testing.T) {
	f := newRetrievalFixture()
	top := scored(0.90, "Solve x+1=2", "x = 1")

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{top}, nil)
	f.smallLLM.On("Chat", mock.Anything, mock.Anything).Return("CACHE_VALID", nil)
	f.repo.On("IncrementUsage", mock.Anything, top.Question.Id).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "solve x+1=2", "")
	require.NoError(t, err)
	assert.Equal(t, "x = 1", result.Answer)
}

func TestRetrieveAnswerTier1Generated(t *testing.T) {
	f := newRetrievalFixture()
	top := scored(0.88, "What is 2+2?", "4")

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{top}, nil)
	f.smallLLM.On("Chat", mock.Anything, mock.Anything).Return("GENERATED\nA fresh answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "what is 3+3", "original phrasing")
	require.NoError(t, err)

	assert.Equal(t, "A fresh answer", result.Answer)
	assert.Equal(t, "tier1_validate_generated", result.Source)
	assert.False(t, result.UsedCache)
	require.NotNil(t, result.CacheReused)
	assert.False(t, *result.CacheReused)
	require.NotNil(t, result.QuestionId)

	f.repo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(q *entity.Question) bool {
		return q.QuestionText == "original phrasing" &&
			q.ReformulatedText == "what is 3+3" &&
			q.AnswerText == "A fresh answer" &&
			q.Confidence == 0.9
	}))
}

func TestRetrieveAnswerTier1FallsBackToLargeLLM(t *testing.T) {
	f := newRetrievalFixture()
	top := scored(0.90, "Q", "A")

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{top}, nil)
	f.smallLLM.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
	f.largeLLM.On("Chat", mock.Anything, mock.Anything).Return("large model answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.NoError(t, err)

	assert.Equal(t, "large model answer", result.Answer)
	assert.Equal(t, "tier1_validate_fallback", result.Source)
}

func TestRetrieveAnswerTier2UsesContext(t *testing.T) {
	f := newRetrievalFixture()
	results := []*entity.ScoredQuestion{
		scored(0.75, "Q1", "A1"),
		scored(0.72, "Q2", "A2"),
	}

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return(results, nil)
	f.smallLLM.On("Chat", mock.Anything, mock.Anything).Return("context answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.NoError(t, err)

	assert.Equal(t, "context answer", result.Answer)
	assert.Equal(t, "tier2_context", result.Source)
	assert.Equal(t, "tier2_context", result.Tier)
	f.fineTuned.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
	f.largeLLM.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestRetrieveAnswerTier3FallsBackToLargeLLM(t *testing.T) {
	f := newRetrievalFixture()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{scored(0.6, "Q", "A")}, nil)
	f.fineTuned.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("model offline"))
	f.largeLLM.On("Chat", mock.Anything, mock.Anything).Return("rescued answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.NoError(t, err)

	assert.Equal(t, "rescued answer", result.Answer)
	assert.Equal(t, "tier3_fine_tuned_fallback", result.Source)
}

func TestRetrieveAnswerCacheSearchFailureRoutesToTier4(t *testing.T) {
	f := newRetrievalFixture()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return(nil, errors.New("store unreachable"))
	f.largeLLM.On("Chat", mock.Anything, mock.Anything).Return("tier4 answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.NoError(t, err)

	assert.Equal(t, "tier4 answer", result.Answer)
	assert.Equal(t, "tier4_large_llm", result.Tier)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestRetrieveAnswerCacheSaveFailureIsNonCritical(t *testing.T) {
	f := newRetrievalFixture()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.repo.On("SearchSimilar", mock.Anything, mock.Anything, 5, 0.0, (*entity.SearchFilters)(nil)).
		Return([]*entity.ScoredQuestion{}, nil)
	f.largeLLM.On("Chat", mock.Anything, mock.Anything).Return("answer", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	result, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.NoError(t, err)
	assert.Equal(t, "answer", result.Answer)
	assert.Nil(t, result.QuestionId)
}

func TestRetrieveAnswerEmbeddingFailureIsFatal(t *testing.T) {
	f := newRetrievalFixture()
	f.embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := f.service.RetrieveAnswer(context.Background(), "query", "")
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
