package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
	"github.com/noah-isme/programme-match-api/pkg/response"
)

// ContextSessionKey is the gin context key storing session claims.
const ContextSessionKey = "sessionClaims"

type tokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// Session resolves the student behind a request from its bearer token.
// It identifies the caller only; roles are passed through, never enforced.
func Session(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing session token"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// SessionClaims returns the claims stored by Session, or nil.
func SessionClaims(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.SessionClaims)
	return claims
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
