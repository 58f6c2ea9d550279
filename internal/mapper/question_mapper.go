package mapper

import (
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToModel(e *entity.Question) *model.Question {
	return &model.Question{
		Id:               e.Id,
		QuestionText:     e.QuestionText,
		ReformulatedText: e.ReformulatedText,
		AnswerText:       e.AnswerText,
		Embedding:        pgvector.NewVector(e.Embedding),
		Lesson:           e.Lesson,
		Source:           e.Source,
		Confidence:       e.Confidence,
		UsageCount:       e.UsageCount,
		PositiveFeedback: e.PositiveFeedback,
		NegativeFeedback: e.NegativeFeedback,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (m *QuestionMapper) ToEntity(mo *model.Question) *entity.Question {
	return &entity.Question{
		Id:               mo.Id,
		QuestionText:     mo.QuestionText,
		ReformulatedText: mo.ReformulatedText,
		AnswerText:       mo.AnswerText,
		Embedding:        mo.Embedding.Slice(),
		Lesson:           mo.Lesson,
		Source:           mo.Source,
		Confidence:       mo.Confidence,
		UsageCount:       mo.UsageCount,
		PositiveFeedback: mo.PositiveFeedback,
		NegativeFeedback: mo.NegativeFeedback,
		CreatedAt:        mo.CreatedAt,
		UpdatedAt:        mo.UpdatedAt,
	}
}
