package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/P4t4m8n/buff-buddy-api/internal/apperror"
	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/services"
)

const (
	TokenCookie = "token"

	// userLocal is a string so websocket connections can read it after the upgrade.
	userLocal = "session_user"
)

type sessionResolver interface {
	Session(ctx context.Context, token string) (*models.SessionUser, error)
}

// Session resolves the token cookie, or a Bearer header, into the current
// user. Requests with a missing or invalid token continue anonymously.
func Session(resolver sessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := requestToken(c)
		if token == "" {
			return c.Next()
		}

		user, err := resolver.Session(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				return c.Next()
			}
			return err
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return reject(c, services.ErrUnauthenticated)
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return reject(c, services.ErrUnauthenticated)
		}
		if !user.IsAdmin {
			return reject(c, services.ErrForbidden)
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *models.SessionUser {
	user, _ := c.Locals(userLocal).(*models.SessionUser)
	return user
}

// Actor is the caller of the current request; anonymous requests yield the
// zero Actor.
func Actor(c *fiber.Ctx) models.Actor {
	return CurrentUser(c).Actor()
}

// SocketUser reads the user stored by Session from an upgraded connection.
func SocketUser(locals func(key string, value ...interface{}) interface{}) *models.SessionUser {
	user, _ := locals(userLocal).(*models.SessionUser)
	return user
}

func requestToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(TokenCookie)); token != "" {
		return token
	}

	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func reject(c *fiber.Ctx, err error) error {
	resp := apperror.Classify(err)
	return c.Status(resp.Status).JSON(fiber.Map{
		"message": resp.Message,
		"errors":  resp.Errors,
	})
}
