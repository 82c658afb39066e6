package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

var errMalformedBody = fiber.NewError(http.StatusBadRequest, "malformed request body")

func (s *HTTPServer) signup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return errMalformedBody
	}

	if err := s.auth.Signup(c.UserContext(), req); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *HTTPServer) verifyAccount(c *fiber.Ctx) error {
	if err := s.auth.VerifyAccount(c.UserContext(), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(messageResponse{Message: "Account Activated Successfully"})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errMalformedBody
	}

	resp, err := s.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *HTTPServer) refreshToken(c *fiber.Ctx) error {
	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errMalformedBody
	}

	resp, err := s.auth.Refresh(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *HTTPServer) logout(c *fiber.Ctx) error {
	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errMalformedBody
	}

	if err := s.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(messageResponse{Message: "Refresh Token Deleted Successfully!!"})
}

func (s *HTTPServer) currentUser(c *fiber.Ctx) error {
	user, err := s.auth.CurrentUser(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(userResponse{
		ID:        user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		Enabled:   user.Enabled,
		CreatedAt: user.CreatedAt,
	})
}
