package service

import (
	"context"
	"fmt"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/contract"

	"github.com/google/uuid"
)

// FeedbackService applies student votes to cached answers.
type FeedbackService struct {
	questionRepo contract.QuestionRepository
	logger       logger.ILogger
}

func NewFeedbackService(questionRepo contract.QuestionRepository, log logger.ILogger) *FeedbackService {
	return &FeedbackService{questionRepo: questionRepo, logger: log}
}

func (s *FeedbackService) Submit(ctx context.Context, questionIdStr string, positive bool) (*entity.FeedbackCounters, error) {
	questionId, err := uuid.Parse(questionIdStr)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid question id: %s", questionIdStr))
	}

	counters, err := s.questionRepo.AddFeedback(ctx, questionId, positive)
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback", "Feedback recorded", map[string]interface{}{
		"question_id": questionIdStr,
		"positive":    positive,
		"score":       counters.FeedbackScore,
	})
	return counters, nil
}
