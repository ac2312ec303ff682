package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/pkg/apperror"
	"github.com/oksasatya/taskboard/pkg/helpers"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

const (
	MsgNoToken        = "Not authorized: no token provided"
	MsgInvalidToken   = "Invalid token"
	MsgExpiredToken   = "Token has expired, please login again"
	MsgRevokedToken   = "Token has been revoked"
	MsgUserGone       = "User belonging to this token no longer exists"
	MsgForbiddenRoles = "Forbidden: insufficient permissions"
)

// RevocationChecker reports whether a token id was revoked before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthGate resolves the caller from the request credential. It holds no
// per-request state and never mutates users or tokens.
type AuthGate struct {
	Tokens  *helpers.JWTManager
	Users   repository.UserRepository
	Revoked RevocationChecker
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

func NewAuthGate(tokens *helpers.JWTManager, users repository.UserRepository, logger *logrus.Logger) *AuthGate {
	return &AuthGate{Tokens: tokens, Users: users, Logger: logger}
}

// TokenFromRequest prefers the credential cookie over the Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.TokenCookieName); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Protect rejects requests without a valid credential for an existing user
// and attaches that user to the RequestContext.
func (g *AuthGate) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			g.reject(c, "no_token", MsgNoToken)
			return
		}

		claims, err := g.Tokens.Verify(token)
		switch {
		case errors.Is(err, helpers.ErrTokenExpired):
			g.reject(c, "expired", MsgExpiredToken)
			return
		case err != nil:
			g.reject(c, "invalid", MsgInvalidToken)
			return
		}

		ctx := c.Request.Context()
		if g.Revoked != nil {
			revoked, err := g.Revoked.IsRevoked(ctx, claims.ID)
			if err != nil && g.Logger != nil {
				// deny-list outage must not lock everyone out
				g.Logger.WithError(err).Warn("token revocation check failed")
			}
			if revoked {
				g.reject(c, "revoked", MsgRevokedToken)
				return
			}
		}

		u, err := g.Users.GetByID(ctx, claims.UserID())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
				g.reject(c, "user_gone", MsgUserGone)
				return
			}
			_ = c.Error(apperror.Internal(err))
			c.Abort()
			return
		}

		GetRequestContext(c).Caller = u
		c.Next()
	}
}

func (g *AuthGate) reject(c *gin.Context, reason, msg string) {
	g.Metrics.AuthRejected(reason)
	_ = c.Error(apperror.Unauthorized(msg))
	c.Abort()
}

// RequireRole admits callers holding any of roles. It must run after Protect.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := Caller(c)
		if u == nil {
			_ = c.Error(apperror.Unauthorized(MsgNoToken))
			c.Abort()
			return
		}
		if !u.HasRole(roles...) {
			_ = c.Error(apperror.Forbidden(MsgForbiddenRoles))
			c.Abort()
			return
		}
		c.Next()
	}
}
