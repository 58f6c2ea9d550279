package entity

import (
	"time"
)

// TutoringState tracks a session's position inside a question's
// interaction tree. IsNewBranch is true only right after a brand-new
// node was created, which guarantees the node has no children yet and
// lets the next turn skip the sibling search.
type TutoringState struct {
	QuestionId    string
	CurrentNodeId string
	TraversalPath []string
	Depth         int
	IsNewBranch   bool
}

// ConversationMessage is one entry of a session's bounded history.
type ConversationMessage struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Session is the per-conversation state threaded between turns. It lives
// only in the in-memory store; concurrent turns for the same session id
// must be serialized by the caller.
type Session struct {
	SessionId         string
	UserId            string
	Phase             string
	OriginalQuery     string
	ReformulatedQuery string
	IdentifiedLesson  string
	RetrievedAnswer   string
	RetrievalScore    float64
	RetrievalSource   string
	Tutoring          TutoringState
	Messages          []ConversationMessage
	CreatedAt         time.Time
	LastActivity      time.Time
}
