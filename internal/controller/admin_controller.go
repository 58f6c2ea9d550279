package controller

import (
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Stats(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) IAdminController {
	return &adminController{adminService: adminService}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.AdminJwtMiddleware)
	h.Get("stats", c.Stats)
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	stats, err := c.adminService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cache stats", dto.CacheStatsResponse{
		Questions:      stats.Questions,
		Interactions:   stats.Interactions,
		ActiveSessions: stats.ActiveSessions,
	}))
}
