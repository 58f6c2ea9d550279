package dto

import "time"

type CreateSessionRequest struct {
	UserId       string `json:"user_id,omitempty"`
	InitialQuery string `json:"initial_query,omitempty" validate:"max=4000"`
}

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TutoringStateDTO struct {
	QuestionId    string   `json:"question_id,omitempty"`
	CurrentNodeId string   `json:"current_node_id,omitempty"`
	TraversalPath []string `json:"traversal_path"`
	Depth         int      `json:"depth"`
	IsNewBranch   bool     `json:"is_new_branch"`
}

type GetSessionResponse struct {
	SessionId         string           `json:"session_id"`
	UserId            string           `json:"user_id,omitempty"`
	Phase             string           `json:"phase"`
	OriginalQuery     string           `json:"original_query,omitempty"`
	ReformulatedQuery string           `json:"reformulated_query,omitempty"`
	IdentifiedLesson  string           `json:"identified_lesson,omitempty"`
	RetrievedAnswer   string           `json:"retrieved_answer,omitempty"`
	RetrievalScore    float64          `json:"retrieval_score"`
	RetrievalSource   string           `json:"retrieval_source,omitempty"`
	Tutoring          TutoringStateDTO `json:"tutoring"`
	MessageCount      int              `json:"message_count"`
	CreatedAt         time.Time        `json:"created_at"`
	LastActivity      time.Time        `json:"last_activity"`
}

type MessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionHistoryResponse struct {
	SessionId  string       `json:"session_id"`
	Messages   []MessageDTO `json:"messages"`
	TotalCount int          `json:"total_count"`
}
