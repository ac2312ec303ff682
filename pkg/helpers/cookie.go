package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenCookieName is the http-only cookie carrying the bearer token.
const TokenCookieName = "token"

// Manager writes the credential cookie. Production cookies are Secure and
// SameSite=Strict; everything else gets SameSite=Lax.
type Manager struct {
	Domain     string
	Secure     bool
	Production bool
}

func NewCookie(domain string, secure, production bool) *Manager {
	return &Manager{Domain: domain, Secure: secure, Production: production}
}

func (m *Manager) sameSite() http.SameSite {
	if m.Production {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// SetToken stores the token until exp.
func (m *Manager) SetToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(TokenCookieName, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// Clear expires the token cookie on the client. The token itself stays valid.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(TokenCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
