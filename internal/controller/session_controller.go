package controller

import (
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) ISessionController {
	return &sessionController{sessionService: sessionService}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Get(":id/history", c.History)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session := c.sessionService.Create(req.UserId, req.InitialQuery)
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", dto.CreateSessionResponse{
		SessionId: session.SessionId,
		CreatedAt: session.CreatedAt,
	}))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	session, err := c.sessionService.Get(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session found", toSessionResponse(session)))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	max := ctx.QueryInt("limit", 0)

	messages, err := c.sessionService.History(sessionId, max)
	if err != nil {
		return err
	}

	dtos := make([]dto.MessageDTO, len(messages))
	for i, msg := range messages {
		dtos[i] = dto.MessageDTO{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("History retrieved", dto.SessionHistoryResponse{
		SessionId:  sessionId,
		Messages:   dtos,
		TotalCount: len(dtos),
	}))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.sessionService.Delete(ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func toSessionResponse(session *entity.Session) dto.GetSessionResponse {
	return dto.GetSessionResponse{
		SessionId:         session.SessionId,
		UserId:            session.UserId,
		Phase:             session.Phase,
		OriginalQuery:     session.OriginalQuery,
		ReformulatedQuery: session.ReformulatedQuery,
		IdentifiedLesson:  session.IdentifiedLesson,
		RetrievedAnswer:   session.RetrievedAnswer,
		RetrievalScore:    session.RetrievalScore,
		RetrievalSource:   session.RetrievalSource,
		Tutoring: dto.TutoringStateDTO{
			QuestionId:    session.Tutoring.QuestionId,
			CurrentNodeId: session.Tutoring.CurrentNodeId,
			TraversalPath: session.Tutoring.TraversalPath,
			Depth:         session.Tutoring.Depth,
			IsNewBranch:   session.Tutoring.IsNewBranch,
		},
		MessageCount: len(session.Messages),
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}
}
