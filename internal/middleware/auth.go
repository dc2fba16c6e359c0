package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/pkg/auth"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

const ContextOwnerID = "owner_id"

type AuthMiddleware struct {
	verifier auth.Verifier
}

func NewAuthMiddleware(verifier auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate verifies the bearer token and stores the owner id in the
// context. Every owner-scoped handler reads it through OwnerID.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.NewUnauthorized("missing authorization header", nil))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperrors.NewUnauthorized("invalid authorization format", nil))
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			abort(c, apperrors.NewUnauthorized("invalid token", err))
			return
		}

		c.Set(ContextOwnerID, claims.OwnerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner, empty outside Authenticate.
func OwnerID(c *gin.Context) string {
	return c.GetString(ContextOwnerID)
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
