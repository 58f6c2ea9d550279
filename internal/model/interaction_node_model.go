package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type InteractionNode struct {
	Id                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionId         uuid.UUID       `gorm:"type:uuid;not null;index:idx_interaction_sibling"`
	ParentId           *uuid.UUID      `gorm:"type:uuid;index:idx_interaction_sibling"`
	UserInput          string          `gorm:"type:text;not null"`
	UserInputEmbedding pgvector.Vector `gorm:"type:vector(1536)"`
	SystemResponse     string          `gorm:"type:text;not null"`
	Depth              int             `gorm:"not null"`
	Source             string          `gorm:"type:text"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
}

func (InteractionNode) TableName() string {
	return "interaction_nodes"
}
