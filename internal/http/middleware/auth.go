package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/http/session"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects every request without a live session with the same
// 401 body, whatever the reason.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := session.TokenFromRequest(c)
		if tokenString == "" {
			am.abort(c)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if !apierr.IsStatus(err, http.StatusUnauthorized) {
				am.log.Warn("Session lookup failed", "error", err)
			}
			am.abort(c)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			am.abort(c)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) abort(c *gin.Context) {
	ae := apierr.Unauthenticated()
	response.RespondError(c, ae.Status, ae.Code, ae)
	c.Abort()
}
