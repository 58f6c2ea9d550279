package serverutils

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminJwtMiddleware guards the admin surface. Tokens are HMAC-signed
// with ADMIN_JWT_SECRET and must carry role=admin.
func AdminJwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(ErrorResponse("Missing token", "UNAUTHORIZED"))
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("ADMIN_JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(ErrorResponse("Invalid token", "UNAUTHORIZED"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ctx.Status(fiber.StatusForbidden).
			JSON(ErrorResponse("Admin role required", "FORBIDDEN"))
	}

	ctx.Locals("admin_subject", claims["sub"])
	return ctx.Next()
}
