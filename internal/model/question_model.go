package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Question struct {
	Id               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionText     string          `gorm:"type:text;not null"`
	ReformulatedText string          `gorm:"type:text"`
	AnswerText       string          `gorm:"type:text;not null"`
	Embedding        pgvector.Vector `gorm:"type:vector(1536)"`
	Lesson           string          `gorm:"type:text;index"`
	Source           string          `gorm:"type:text;index"`
	Confidence       float64         `gorm:"not null;default:0.9"`
	UsageCount       int             `gorm:"not null;default:0"`
	PositiveFeedback int             `gorm:"not null;default:0"`
	NegativeFeedback int             `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

func (Question) TableName() string {
	return "questions"
}
