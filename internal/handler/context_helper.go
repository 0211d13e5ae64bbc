package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/programme-match-api/internal/middleware"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
	"github.com/noah-isme/programme-match-api/pkg/response"
)

// sessionFromContext returns the caller's claims, answering 401 when absent.
func sessionFromContext(c *gin.Context) (*models.SessionClaims, bool) {
	claims := middleware.SessionClaims(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing session"))
		return nil, false
	}
	return claims, true
}

// queryInt parses an optional positive integer query parameter.
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, key+" must be an integer")
	}
	return value, nil
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
