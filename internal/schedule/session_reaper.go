package schedule

import (
	"context"
	"fmt"

	"ai-tutoring-be/internal/repository/memory"
)

// SessionReaper sweeps idle sessions out of the in-memory store.
type SessionReaper struct {
	store    *memory.SessionStore
	interval int
}

func NewSessionReaper(store *memory.SessionStore, intervalSeconds int) *SessionReaper {
	return &SessionReaper{store: store, interval: intervalSeconds}
}

func (r *SessionReaper) Name() string {
	return "session_reaper"
}

func (r *SessionReaper) Spec() string {
	return fmt.Sprintf("@every %ds", r.interval)
}

func (r *SessionReaper) Run(_ context.Context) error {
	r.store.DeleteExpired()
	return nil
}
