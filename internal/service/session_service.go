package service

import (
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/memory"
)

// SessionService exposes the session store to the HTTP surface.
type SessionService struct {
	store  *memory.SessionStore
	logger logger.ILogger
}

func NewSessionService(store *memory.SessionStore, log logger.ILogger) *SessionService {
	return &SessionService{store: store, logger: log}
}

func (s *SessionService) Create(userId, initialQuery string) *entity.Session {
	return s.store.Create(userId, initialQuery)
}

func (s *SessionService) Get(sessionId string) (*entity.Session, error) {
	return s.store.Get(sessionId)
}

func (s *SessionService) Delete(sessionId string) error {
	return s.store.Delete(sessionId)
}

func (s *SessionService) History(sessionId string, max int) ([]entity.ConversationMessage, error) {
	return s.store.RecentMessages(sessionId, max)
}

func (s *SessionService) ActiveCount() int {
	return s.store.Count()
}
