package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const CookieName = "processhub_session"

// CookieOptions control how the session cookie is written.
type CookieOptions struct {
	Secure bool
	Domain string
}

func SetCookie(c *gin.Context, opts CookieOptions, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   opts.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(c *gin.Context, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest prefers a Bearer header and falls back to the cookie.
func TokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if v, err := c.Cookie(CookieName); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
