package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewUserHandler(log *logger.Logger, authService services.AuthService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), authService: authService}
}

// GET /api/user
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.authService.CurrentUser(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, me)
}
