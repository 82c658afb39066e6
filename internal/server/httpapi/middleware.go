package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

// requireBearer verifies the access token in the Authorization header and
// stores the principal in the request context. The check needs no
// database access.
func (s *HTTPServer) requireBearer(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(common.AuthorizationHeaderName), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
	}

	username, err := s.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return fiber.NewError(http.StatusUnauthorized, "token expired")
		}
		return fiber.NewError(http.StatusUnauthorized, "invalid token")
	}

	c.SetUserContext(auth.WithPrincipal(c.UserContext(), auth.Principal{UserName: username}))
	return c.Next()
}
