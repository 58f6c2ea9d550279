package serverutils

import (
	"errors"

	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// a uniform JSON envelope with the status mapped from the error kind.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus()
			if status >= fiber.StatusInternalServerError {
				log.Error("http", "Request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"kind":  string(appErr.Kind),
					"error": err,
				})
			} else {
				log.Warn("http", "Request rejected", map[string]interface{}{
					"path": ctx.Path(),
					"kind": string(appErr.Kind),
				})
			}
			return ctx.Status(status).JSON(ErrorResponse(appErr.Message, string(appErr.Kind)))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, "HTTP_ERROR"))
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse("internal server error", string(apperror.KindInternal)),
		)
	}
}
