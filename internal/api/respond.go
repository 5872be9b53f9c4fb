package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/logger"
)

var errLog = logger.New()

// handleServiceError maps service errors onto HTTP status codes.
// Authorization failures become 403, validation failures 400, anything
// else a generic 500 so internals never leak to clients.
func handleServiceError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		errLog.Error("unhandled service error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch appErr.Kind {
	case apperr.KindAuthorization:
		c.JSON(http.StatusForbidden, gin.H{"error": appErr.Message})
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
	default:
		errLog.Error("internal service error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireCaller pulls the authenticated caller out of the context. The
// JWT middleware guarantees it on protected routes; the 401 covers
// misconfigured route groups.
func requireCaller(c *gin.Context) (auth.Caller, bool) {
	caller, ok := auth.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
	}
	return caller, ok
}

// pathUUID parses a UUID path parameter, responding 400 on garbage.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
