package entity

import (
	"time"

	"github.com/google/uuid"
)

// InteractionNode is one stored exchange in a question's tutoring tree.
// Nodes are immutable after creation. ParentId == nil marks a direct
// child of the question root (depth 1); otherwise depth is the parent's
// depth plus one.
type InteractionNode struct {
	Id                 uuid.UUID
	QuestionId         uuid.UUID
	ParentId           *uuid.UUID
	UserInput          string
	UserInputEmbedding []float32
	SystemResponse     string
	Depth              int
	Source             string
	CreatedAt          time.Time
}

// ChildMatch is the outcome of a sibling-group lookup.
type ChildMatch struct {
	IsHit       bool
	Score       float64
	MatchedNode *InteractionNode
}

// PathStep is one exchange along a root-to-node conversation path.
type PathStep struct {
	Id             uuid.UUID
	UserInput      string
	SystemResponse string
	Depth          int
}

// ConversationPath is a full traversal from the question root down to a
// node, with the originating question attached for prompt context.
type ConversationPath struct {
	QuestionId   uuid.UUID
	QuestionText string
	AnswerText   string
	Steps        []PathStep
}
