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

type InteractionRepositoryImpl struct {
	db       *gorm.DB
	mapper   *mapper.InteractionMapper
	maxDepth int
}

func NewInteractionRepository(db *gorm.DB, maxDepth int) contract.InteractionRepository {
	return &InteractionRepositoryImpl{
		db:       db,
		mapper:   mapper.NewInteractionMapper(),
		maxDepth: maxDepth,
	}
}

func (r *InteractionRepositoryImpl) Create(ctx context.Context, node *entity.InteractionNode) error {
	depth := 1
	if node.ParentId != nil {
		parent, err := r.GetByID(ctx, *node.ParentId)
		if err != nil {
			return err
		}
		depth = parent.Depth + 1
	}
	if depth > r.maxDepth {
		return apperror.DepthExceeded(
			fmt.Sprintf("interaction depth %d exceeds maximum %d", depth, r.maxDepth))
	}

	if node.Id == uuid.Nil {
		node.Id = uuid.New()
	}
	node.Depth = depth

	m := r.mapper.ToModel(node)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create interaction node: %w", err)
	}
	*node = *r.mapper.ToEntity(m)
	return nil
}

func (r *InteractionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.InteractionNode, error) {
	var m model.InteractionNode
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("interaction node %s not found", id))
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InteractionRepositoryImpl) SearchChildren(ctx context.Context, questionId uuid.UUID, parentId *uuid.UUID, embedding []float32, threshold float64) (*entity.ChildMatch, error) {
	type row struct {
		model.InteractionNode
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("interaction_nodes").
		Select("interaction_nodes.*, 1 - (user_input_embedding <=> ?) as similarity", queryVector).
		Where("question_id = ?", questionId).
		Where("1 - (user_input_embedding <=> ?) >= ?", queryVector, threshold)

	// Sibling scoping: a nil parent means the question's direct children.
	if parentId != nil {
		query = query.Where("parent_id = ?", *parentId)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	err := query.
		Order("similarity DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search children: %w", err)
	}

	if len(rows) == 0 {
		return &entity.ChildMatch{IsHit: false}, nil
	}

	best := rows[0]
	return &entity.ChildMatch{
		IsHit:       true,
		Score:       best.Similarity,
		MatchedNode: r.mapper.ToEntity(&best.InteractionNode),
	}, nil
}

func (r *InteractionRepositoryImpl) ConversationPath(ctx context.Context, questionId uuid.UUID, nodeId *uuid.UUID) (*entity.ConversationPath, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", questionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("question %s not found", questionId))
		}
		return nil, err
	}

	path := &entity.ConversationPath{
		QuestionId:   questionId,
		QuestionText: question.QuestionText,
		AnswerText:   question.AnswerText,
	}

	// Walk parent links upward, then reverse. Depth is bounded by the
	// configured maximum, so the loop is O(maxDepth) point lookups.
	var steps []entity.PathStep
	currentId := nodeId
	for currentId != nil {
		node, err := r.GetByID(ctx, *currentId)
		if err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				break
			}
			return nil, err
		}
		steps = append(steps, entity.PathStep{
			Id:             node.Id,
			UserInput:      node.UserInput,
			SystemResponse: node.SystemResponse,
			Depth:          node.Depth,
		})
		currentId = node.ParentId
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	path.Steps = steps

	return path, nil
}

func (r *InteractionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InteractionNode{}).Count(&count).Error
	return count, err
}
