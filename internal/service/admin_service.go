package service

import (
	"context"

	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/contract"
	"ai-tutoring-be/internal/repository/memory"
)

// CacheStats is a point-in-time snapshot of stored state.
type CacheStats struct {
	Questions      int64
	Interactions   int64
	ActiveSessions int
}

// AdminService backs the authenticated operations endpoints.
type AdminService struct {
	questionRepo    contract.QuestionRepository
	interactionRepo contract.InteractionRepository
	sessions        *memory.SessionStore
	logger          logger.ILogger
}

func NewAdminService(
	questionRepo contract.QuestionRepository,
	interactionRepo contract.InteractionRepository,
	sessions *memory.SessionStore,
	log logger.ILogger,
) *AdminService {
	return &AdminService{
		questionRepo:    questionRepo,
		interactionRepo: interactionRepo,
		sessions:        sessions,
		logger:          log,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*CacheStats, error) {
	questions, err := s.questionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	interactions, err := s.interactionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		Questions:      questions,
		Interactions:   interactions,
		ActiveSessions: s.sessions.Count(),
	}, nil
}
