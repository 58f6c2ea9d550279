package controller

import (
	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/repository/memory"
	"ai-tutoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	AnswerRetrieval(ctx *fiber.Ctx) error
	TutoringTurn(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
}

type chatController struct {
	retrievalService *service.RetrievalService
	tutoringService  *service.TutoringService
	feedbackService  *service.FeedbackService
	sessionService   *service.SessionService
	sessions         *memory.SessionStore
}

func NewChatController(
	retrievalService *service.RetrievalService,
	tutoringService *service.TutoringService,
	feedbackService *service.FeedbackService,
	sessionService *service.SessionService,
	sessions *memory.SessionStore,
) IChatController {
	return &chatController{
		retrievalService: retrievalService,
		tutoringService:  tutoringService,
		feedbackService:  feedbackService,
		sessionService:   sessionService,
		sessions:         sessions,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("answer-retrieval", c.AnswerRetrieval)
	h.Post("tutoring-turn", c.TutoringTurn)
	h.Post("feedback", c.Feedback)
}

// AnswerRetrieval runs the tiered pipeline for a fresh question and
// opens a session for tutoring follow-ups when the answer landed in
// the cache.
func (c *chatController) AnswerRetrieval(ctx *fiber.Ctx) error {
	var req dto.AnswerRetrievalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.retrievalService.RetrieveAnswer(ctx.Context(), req.Query, req.OriginalQuery)
	if err != nil {
		return err
	}

	res := dto.AnswerRetrievalResponse{
		Answer:      result.Answer,
		Source:      result.Source,
		Tier:        result.Tier,
		Confidence:  result.Confidence,
		UsedCache:   result.UsedCache,
		CacheReused: result.CacheReused,
	}

	// Tutoring follow-ups need a cache entry to anchor the interaction
	// tree, so a session is opened only when one exists.
	if result.QuestionId != nil {
		questionId := result.QuestionId.String()
		res.QuestionId = questionId

		session := c.sessionService.Create("", req.Query)
		phase := constant.PhaseTutoring
		if _, err := c.sessions.Update(session.SessionId, memory.SessionUpdate{
			Phase:           &phase,
			RetrievedAnswer: &result.Answer,
			RetrievalScore:  &result.Confidence,
			RetrievalSource: &result.Source,
		}); err != nil {
			return err
		}
		if _, err := c.sessions.UpdateTutoringState(session.SessionId, memory.TutoringUpdate{
			QuestionId: &questionId,
		}); err != nil {
			return err
		}
		if err := c.sessions.AddMessage(session.SessionId, constant.RoleAssistant, result.Answer); err != nil {
			return err
		}
		res.SessionId = session.SessionId
	}

	return ctx.JSON(serverutils.SuccessResponse("Answer retrieved", res))
}

func (c *chatController) TutoringTurn(ctx *fiber.Ctx) error {
	var req dto.TutoringTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.tutoringService.HandleTurn(
		ctx.Context(),
		req.SessionId,
		req.OriginalQuestion,
		req.OriginalAnswer,
		req.QuestionId,
		req.UserUtterance,
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tutoring turn completed", dto.TutoringTurnResponse{
		SessionId:    result.SessionId,
		TutorMessage: result.TutorMessage,
		IsComplete:   result.IsComplete,
		NextPrompt:   result.NextPrompt,
		Intent:       result.Intent,
		CacheHit:     result.CacheHit,
		Depth:        result.Depth,
	}))
}

func (c *chatController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	counters, err := c.feedbackService.Submit(ctx.Context(), req.QuestionId, *req.Positive)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback recorded", dto.FeedbackResponse{
		QuestionId:       counters.QuestionId.String(),
		PositiveFeedback: counters.PositiveFeedback,
		NegativeFeedback: counters.NegativeFeedback,
		FeedbackScore:    counters.FeedbackScore,
	}))
}
