package dto

type AnswerRetrievalRequest struct {
	Query         string `json:"query" validate:"required,min=1,max=4000"`
	OriginalQuery string `json:"original_query,omitempty"`
}

type AnswerRetrievalResponse struct {
	Answer      string  `json:"answer"`
	Source      string  `json:"source"`
	Tier        string  `json:"tier"`
	Confidence  float64 `json:"confidence"`
	UsedCache   bool    `json:"used_cache"`
	CacheReused *bool   `json:"cache_reused,omitempty"`
	QuestionId  string  `json:"question_id,omitempty"`
	SessionId   string  `json:"session_id,omitempty"`
}

type TutoringTurnRequest struct {
	SessionId        string `json:"session_id" validate:"required"`
	UserUtterance    string `json:"user_utterance" validate:"required,min=1,max=4000"`
	QuestionId       string `json:"question_id" validate:"required,uuid"`
	OriginalQuestion string `json:"original_question" validate:"required"`
	OriginalAnswer   string `json:"original_answer,omitempty"`
}

type TutoringTurnResponse struct {
	SessionId    string  `json:"session_id"`
	TutorMessage string  `json:"tutor_message"`
	IsComplete   bool    `json:"is_complete"`
	NextPrompt   *string `json:"next_prompt,omitempty"`
	Intent       string  `json:"intent"`
	CacheHit     bool    `json:"cache_hit"`
	Depth        int     `json:"depth"`
}

type FeedbackRequest struct {
	QuestionId string `json:"question_id" validate:"required,uuid"`
	Positive   *bool  `json:"positive" validate:"required"`
}

type FeedbackResponse struct {
	QuestionId       string  `json:"question_id"`
	PositiveFeedback int     `json:"positive_feedback"`
	NegativeFeedback int     `json:"negative_feedback"`
	FeedbackScore    float64 `json:"feedback_score"`
}
