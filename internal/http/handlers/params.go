package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/processhub-backend/internal/platform/apierr"
)

// pathID parses a UUID path parameter. A malformed id names no row, so it
// is reported as not found.
func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.NotFound()
	}
	return id, nil
}

func badJSON() *apierr.Error {
	return apierr.InvalidInput("Invalid request body")
}
