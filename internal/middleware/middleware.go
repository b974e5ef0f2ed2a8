package middleware

import (
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/utils"
	"foodgram/pkg/jwt"
	"foodgram/pkg/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const identityKey = "identity"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		Require(action policy.Action) fiber.Handler
	}

	middleware struct {
		policy policy.Policy
	}
)

func NewMiddleware(p policy.Policy) Middleware {
	return &middleware{policy: p}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: utils.GetConfig("CORS_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	})
}

// AuthMiddleware resolves the caller. A request without credentials continues
// as anonymous; a request with a bad token is rejected.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			c.Locals(identityKey, domain.Anonymous())
			return c.Next()
		}

		userID, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals(identityKey, domain.Authenticated(userID))
		return c.Next()
	}
}

// Require rejects anonymous callers on actions that need an account. Author
// checks happen once the target entity is resolved.
func (m *middleware) Require(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := m.policy.RoleOf(action)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if role != policy.RoleAnyone && !Identity(c).Authenticated {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MesaageUserNotAllowed, domain.ErrUnauthenticated)
		}
		return c.Next()
	}
}

func Identity(c *fiber.Ctx) domain.Identity {
	if id, ok := c.Locals(identityKey).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token)
	default:
		return ""
	}
}
