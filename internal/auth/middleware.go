package auth

import (
	"fmt"
	"strings"

	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxOwnerIDKey  = "owner_id"
	CtxTenantIDKey = "tenant_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxOwnerIDKey, claims.OwnerID)
		c.Locals(CtxTenantIDKey, claims.TenantID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *fiber.Ctx) uint {
	if v, ok := c.Locals(CtxUserIDKey).(uint); ok {
		return v
	}
	return 0
}

// TenantID returns the tenant record linked to the caller, if any.
func TenantID(c *fiber.Ctx) *uint {
	if v, ok := c.Locals(CtxTenantIDKey).(*uint); ok {
		return v
	}
	return nil
}

// OwnerID returns the owner record linked to the caller, if any.
func OwnerID(c *fiber.Ctx) *uint {
	if v, ok := c.Locals(CtxOwnerIDKey).(*uint); ok {
		return v
	}
	return nil
}
