package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// errorHandler maps service errors to status codes. Unknown errors are logged
// and reported as a bare 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var verr *common.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Error:  common.ErrorValidation.Error(),
			Fields: verr.Fields,
		})
	case errors.Is(err, common.ErrorConflict):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: common.ErrorConflict.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: common.ErrorUnauthorized.Error()})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(errorResponse{Error: ferr.Message})
	}

	s.logger.Error(c.UserContext(), "request failed",
		"request_id", c.Locals(requestIDKey),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal error"})
}
