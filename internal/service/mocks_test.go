package service

import (
	"context"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockQuestionRepo struct {
	mock.Mock
}

func (m *mockQuestionRepo) SearchSimilar(ctx context.Context, embedding []float32, topK int, threshold float64, filters *entity.SearchFilters) ([]*entity.ScoredQuestion, error) {
	args := m.Called(ctx, embedding, topK, threshold, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ScoredQuestion), args.Error(1)
}

func (m *mockQuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	if question.Id == uuid.Nil {
		question.Id = uuid.New()
	}
	return args.Error(0)
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *mockQuestionRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQuestionRepo) AddFeedback(ctx context.Context, id uuid.UUID, positive bool) (*entity.FeedbackCounters, error) {
	args := m.Called(ctx, id, positive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedbackCounters), args.Error(1)
}

func (m *mockQuestionRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockInteractionRepo struct {
	mock.Mock
}

func (m *mockInteractionRepo) Create(ctx context.Context, node *entity.InteractionNode) error {
	args := m.Called(ctx, node)
	if args.Error(0) == nil {
		if node.Id == uuid.Nil {
			node.Id = uuid.New()
		}
		if node.Depth == 0 {
			node.Depth = 1
		}
	}
	return args.Error(0)
}

func (m *mockInteractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.InteractionNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InteractionNode), args.Error(1)
}

func (m *mockInteractionRepo) SearchChildren(ctx context.Context, questionId uuid.UUID, parentId *uuid.UUID, embedding []float32, threshold float64) (*entity.ChildMatch, error) {
	args := m.Called(ctx, questionId, parentId, embedding, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChildMatch), args.Error(1)
}

func (m *mockInteractionRepo) ConversationPath(ctx context.Context, questionId uuid.UUID, nodeId *uuid.UUID) (*entity.ConversationPath, error) {
	args := m.Called(ctx, questionId, nodeId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConversationPath), args.Error(1)
}

func (m *mockInteractionRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *mockEmbedder) Dimensions() int {
	return 4
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return m.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}
