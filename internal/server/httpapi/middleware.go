package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// accessLog tags each request with an id and logs one line once the response
// is known. Handler errors are rendered here so the logged status is final.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals(requestIDKey, id)

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start),
	)
	return nil
}

// requireAuth resolves "Authorization: Bearer <token>" to a user id.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return common.ErrorUnauthorized
	}

	id, err := s.users.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(userIDKey, id)
	return c.Next()
}
