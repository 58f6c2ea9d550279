package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/mapper"
	"ai-tutoring-be/internal/model"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *QuestionRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, topK int, threshold float64, filters *entity.SearchFilters) ([]*entity.ScoredQuestion, error) {
	if topK <= 0 {
		topK = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query) is the similarity in [0,1] for
	// normalized vectors.
	type row struct {
		model.Question
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("questions").
		Select("questions.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold)

	if filters != nil {
		if filters.Lesson != "" {
			query = query.Where("lesson = ?", filters.Lesson)
		}
		if filters.Source != "" {
			query = query.Where("source = ?", filters.Source)
		}
		if filters.MinConfidence > 0 {
			query = query.Where("confidence >= ?", filters.MinConfidence)
		}
	}

	err := query.
		Order("similarity DESC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}

	scored := make([]*entity.ScoredQuestion, len(rows))
	for i, res := range rows {
		scored[i] = &entity.ScoredQuestion{
			Question:   r.mapper.ToEntity(&res.Question),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *QuestionRepositoryImpl) Create(ctx context.Context, question *entity.Question) error {
	if question.Id == uuid.Nil {
		question.Id = uuid.New()
	}
	m := r.mapper.ToModel(question)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	*question = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuestionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.Question, error) {
	var m model.Question
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("question %s not found", id))
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuestionRepositoryImpl) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (r *QuestionRepositoryImpl) AddFeedback(ctx context.Context, id uuid.UUID, positive bool) (*entity.FeedbackCounters, error) {
	column := "negative_feedback"
	if positive {
		column = "positive_feedback"
	}

	var m model.Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Question{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(fmt.Sprintf("question %s not found", id))
		}
		return tx.First(&m, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	total := m.PositiveFeedback + m.NegativeFeedback
	score := 0.5
	if total > 0 {
		score = float64(m.PositiveFeedback) / float64(total)
	}

	return &entity.FeedbackCounters{
		QuestionId:       id,
		PositiveFeedback: m.PositiveFeedback,
		NegativeFeedback: m.NegativeFeedback,
		FeedbackScore:    score,
	}, nil
}

func (r *QuestionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Count(&count).Error
	return count, err
}
