package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors to an HTTP status and a client-safe
// message. Order matters: specific sentinels are tested before their
// parents.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "username or email is already taken"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "authentication failed"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, common.ErrActivationTokenExpired):
		return http.StatusBadRequest, "activation token expired"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusBadRequest, "invalid token"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logging.LogError(c.UserContext(), s.logger, "request failed", err)
	}
	return c.Status(code).JSON(errorResponse{Error: msg})
}
