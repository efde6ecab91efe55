package httpapi

import (
	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/dmitrijs2005/kynetix/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	PhoneNumber string  `json:"phone_number"`
	FullName    string  `json:"full_name"`
	Email       *string `json:"email"`
	Password    string  `json:"password"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to Kynetix Club API"})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	p, err := s.users.Register(c.UserContext(), services.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	_, token, err := s.users.Login(c.UserContext(), services.LoginInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(c *fiber.Ctx) error {
	id, ok := c.Locals(userIDKey).(int64)
	if !ok {
		return common.ErrorUnauthorized
	}

	p, err := s.users.Profile(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

// decodeBody reads a JSON request body regardless of the Content-Type header.
// A body that does not parse is reported as a validation failure.
func decodeBody(c *fiber.Ctx, v any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), v); err != nil {
		verr := common.NewValidationError()
		verr.Add("body", "invalid JSON")
		return verr
	}
	return nil
}
