package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionUpdate carries partial session fields; nil means "leave as is".
type SessionUpdate struct {
	Phase             *string
	OriginalQuery     *string
	ReformulatedQuery *string
	IdentifiedLesson  *string
	RetrievedAnswer   *string
	RetrievalScore    *float64
	RetrievalSource   *string
}

// TutoringUpdate carries partial tutoring-state fields. AppendToPath
// pushes a node id onto the traversal path and recomputes depth from
// the path length unless Depth is set explicitly; cached-branch jumps
// land on nodes whose depth the path does not track.
type TutoringUpdate struct {
	QuestionId    *string
	CurrentNodeId *string
	Depth         *int
	AppendToPath  *string
	IsNewBranch   *bool
}

// SessionStore holds all live conversation state. Entries never expire
// inside go-cache itself; idleness is judged on LastActivity and swept
// explicitly by the reaper so evictions are observable and the sweep is
// cancellable with the scheduler.
//
// Mutations are serialized by a store-level mutex so read-modify-write
// updates cannot lose writes. The store does NOT serialize whole turns:
// concurrent turns for the same session id are a caller contract
// violation, not something handled here.
type SessionStore struct {
	mu         sync.Mutex
	cache      *cache.Cache
	ttl        time.Duration
	maxHistory int
	logger     logger.ILogger
}

func NewSessionStore(ttl time.Duration, maxHistory int, log logger.ILogger) *SessionStore {
	return &SessionStore{
		cache:      cache.New(cache.NoExpiration, 0),
		ttl:        ttl,
		maxHistory: maxHistory,
		logger:     log,
	}
}

func (s *SessionStore) Create(userId, initialQuery string) *entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionId := "sess_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	now := time.Now().UTC()

	session := &entity.Session{
		SessionId:     sessionId,
		UserId:        userId,
		Phase:         constant.PhaseInitial,
		OriginalQuery: initialQuery,
		CreatedAt:     now,
		LastActivity:  now,
	}

	if initialQuery != "" {
		session.Messages = append(session.Messages, entity.ConversationMessage{
			Role:      constant.RoleUser,
			Content:   initialQuery,
			Timestamp: now,
		})
	}

	s.cache.Set(sessionId, session, cache.NoExpiration)
	metrics.SessionsCreatedTotal.Inc()
	metrics.SessionsActive.Inc()

	s.logger.Info("session", "Session created", map[string]interface{}{
		"session_id":        sessionId,
		"user_id":           userId,
		"has_initial_query": initialQuery != "",
	})

	return snapshot(session)
}

func (s *SessionStore) Get(sessionId string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

func (s *SessionStore) Update(sessionId string, update SessionUpdate) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return nil, err
	}

	if update.Phase != nil && *update.Phase != session.Phase {
		metrics.SessionPhaseTransitions.WithLabelValues(session.Phase, *update.Phase).Inc()
		session.Phase = *update.Phase
	}
	if update.OriginalQuery != nil {
		session.OriginalQuery = *update.OriginalQuery
	}
	if update.ReformulatedQuery != nil {
		session.ReformulatedQuery = *update.ReformulatedQuery
	}
	if update.IdentifiedLesson != nil {
		session.IdentifiedLesson = *update.IdentifiedLesson
	}
	if update.RetrievedAnswer != nil {
		session.RetrievedAnswer = *update.RetrievedAnswer
	}
	if update.RetrievalScore != nil {
		session.RetrievalScore = *update.RetrievalScore
	}
	if update.RetrievalSource != nil {
		session.RetrievalSource = *update.RetrievalSource
	}

	session.LastActivity = time.Now().UTC()
	s.cache.Set(sessionId, session, cache.NoExpiration)
	return snapshot(session), nil
}

func (s *SessionStore) UpdateTutoringState(sessionId string, update TutoringUpdate) (*entity.TutoringState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return nil, err
	}

	if update.QuestionId != nil {
		session.Tutoring.QuestionId = *update.QuestionId
	}
	if update.CurrentNodeId != nil {
		session.Tutoring.CurrentNodeId = *update.CurrentNodeId
	}
	if update.Depth != nil {
		session.Tutoring.Depth = *update.Depth
	}
	if update.AppendToPath != nil {
		session.Tutoring.TraversalPath = append(session.Tutoring.TraversalPath, *update.AppendToPath)
		if update.Depth == nil {
			session.Tutoring.Depth = len(session.Tutoring.TraversalPath)
		}
	}
	if update.IsNewBranch != nil {
		session.Tutoring.IsNewBranch = *update.IsNewBranch
	}

	session.LastActivity = time.Now().UTC()
	s.cache.Set(sessionId, session, cache.NoExpiration)

	state := session.Tutoring
	state.TraversalPath = append([]string(nil), session.Tutoring.TraversalPath...)
	return &state, nil
}

// ResetTutoringState clears traversal position for a fresh question.
func (s *SessionStore) ResetTutoringState(sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return err
	}

	if session.Tutoring.Depth > 0 {
		metrics.SessionTutoringDepth.Observe(float64(session.Tutoring.Depth))
	}
	session.Tutoring = entity.TutoringState{}
	session.Phase = constant.PhaseInitial
	session.LastActivity = time.Now().UTC()
	s.cache.Set(sessionId, session, cache.NoExpiration)
	return nil
}

// AddMessage appends to the bounded history, dropping the oldest
// entries beyond the cap.
func (s *SessionStore) AddMessage(sessionId, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return err
	}

	session.Messages = append(session.Messages, entity.ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if len(session.Messages) > s.maxHistory {
		session.Messages = session.Messages[len(session.Messages)-s.maxHistory:]
	}

	session.LastActivity = time.Now().UTC()
	s.cache.Set(sessionId, session, cache.NoExpiration)
	return nil
}

// RecentMessages returns up to max entries from the end of the history.
func (s *SessionStore) RecentMessages(sessionId string, max int) ([]entity.ConversationMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return nil, err
	}
	msgs := session.Messages
	if max > 0 && len(msgs) > max {
		msgs = msgs[len(msgs)-max:]
	}
	return append([]entity.ConversationMessage(nil), msgs...), nil
}

func (s *SessionStore) Delete(sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionId)
	if err != nil {
		return err
	}

	s.cache.Delete(sessionId)
	metrics.SessionsDeletedTotal.Inc()
	metrics.SessionsActive.Dec()
	if session.Tutoring.Depth > 0 {
		metrics.SessionTutoringDepth.Observe(float64(session.Tutoring.Depth))
	}

	s.logger.Info("session", "Session deleted", map[string]interface{}{
		"session_id": sessionId,
		"phase":      session.Phase,
	})
	return nil
}

// DeleteExpired evicts every session idle beyond the TTL and records
// its final tutoring depth and lifetime. Returns the eviction count.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	evicted := 0

	for id, item := range s.cache.Items() {
		session, ok := item.Object.(*entity.Session)
		if !ok {
			continue
		}
		if now.Sub(session.LastActivity) <= s.ttl {
			continue
		}

		s.cache.Delete(id)
		evicted++
		metrics.SessionsExpiredTotal.Inc()
		metrics.SessionsActive.Dec()
		if session.Tutoring.Depth > 0 {
			metrics.SessionTutoringDepth.Observe(float64(session.Tutoring.Depth))
		}
		metrics.SessionDurationSeconds.Observe(now.Sub(session.CreatedAt).Seconds())
	}

	if evicted > 0 {
		s.logger.Info("session", "Cleaned up expired sessions", map[string]interface{}{
			"count":     evicted,
			"remaining": s.cache.ItemCount(),
		})
	}
	return evicted
}

func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

func (s *SessionStore) get(sessionId string) (*entity.Session, error) {
	if x, found := s.cache.Get(sessionId); found {
		if session, ok := x.(*entity.Session); ok {
			return session, nil
		}
	}
	return nil, apperror.NotFound(fmt.Sprintf("session %s not found", sessionId))
}

// snapshot copies the session so callers never share mutable state with
// the store.
func snapshot(session *entity.Session) *entity.Session {
	copied := *session
	copied.Tutoring.TraversalPath = append([]string(nil), session.Tutoring.TraversalPath...)
	copied.Messages = append([]entity.ConversationMessage(nil), session.Messages...)
	return &copied
}
