package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/http/session"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      session.CookieOptions
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookie session.CookieOptions) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		cookie:      cookie,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, ah.log, badJSON())
		return
	}
	sess, err := ah.authService.Register(c.Request.Context(), req.Username, req.Password, c.Request.UserAgent())
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	session.SetCookie(c, ah.cookie, sess.Token, sess.ExpiresAt)
	response.RespondCreated(c, sess.User)
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, ah.log, badJSON())
		return
	}
	sess, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password, c.Request.UserAgent())
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	session.SetCookie(c, ah.cookie, sess.Token, sess.ExpiresAt)
	response.RespondOK(c, sess.User)
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	session.ClearCookie(c, ah.cookie)
	response.RespondOK(c, gin.H{"ok": true})
}
