package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

const internalErrorMessage = "Internal server error"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its apierr status and code. Anything else
// is logged and hidden behind a generic 500.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	if log != nil {
		log.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", ctxutil.RequestID(c.Request.Context()),
			"error", err,
		)
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New(internalErrorMessage))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
