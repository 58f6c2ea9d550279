package mapper

import (
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToModel(e *entity.InteractionNode) *model.InteractionNode {
	return &model.InteractionNode{
		Id:                 e.Id,
		QuestionId:         e.QuestionId,
		ParentId:           e.ParentId,
		UserInput:          e.UserInput,
		UserInputEmbedding: pgvector.NewVector(e.UserInputEmbedding),
		SystemResponse:     e.SystemResponse,
		Depth:              e.Depth,
		Source:             e.Source,
		CreatedAt:          e.CreatedAt,
	}
}

func (m *InteractionMapper) ToEntity(mo *model.InteractionNode) *entity.InteractionNode {
	return &entity.InteractionNode{
		Id:                 mo.Id,
		QuestionId:         mo.QuestionId,
		ParentId:           mo.ParentId,
		UserInput:          mo.UserInput,
		UserInputEmbedding: mo.UserInputEmbedding.Slice(),
		SystemResponse:     mo.SystemResponse,
		Depth:              mo.Depth,
		Source:             mo.Source,
		CreatedAt:          mo.CreatedAt,
	}
}
