package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
	"github.com/oksasatya/blogx-api/pkg/helpers"
	"github.com/oksasatya/blogx-api/pkg/response"
)

const (
	CtxAccountIDKey = "accountID"
	CtxSessionIDKey = "sessionID"
	CtxPrincipalKey = "principal"
)

// SessionChecker reports whether a token's session is still the active one.
type SessionChecker interface {
	SessionValid(ctx context.Context, accountID, sessionID string) (bool, error)
}

// PrincipalLoader reloads the account behind a token.
type PrincipalLoader interface {
	Principal(ctx context.Context, accountID string) (*entity.Account, error)
}

// bearerToken reads the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *gin.Context, message string) {
	response.Abort(c, http.StatusUnauthorized, message, response.ErrorBody{Code: "unauthorized", Reason: policy.ErrUnauthenticated.Code})
}

// internalError hides err from the client; AccessLog reports it from c.Errors.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Abort(c, http.StatusInternalServerError, "internal server error", response.ErrorBody{Code: "internal"})
}

// Auth validates the access token and, when sessions is set, that its session
// is still active. It sets accountID and sessionID in the Gin context.
func Auth(jwt *helpers.JWTManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c, "invalid access token")
			return
		}
		if sessions != nil {
			ok, err := sessions.SessionValid(c.Request.Context(), claims.AccountID, claims.SessionID)
			if err != nil {
				internalError(c, err)
				return
			}
			if !ok {
				unauthorized(c, "session not found")
				return
			}
		}
		c.Set(CtxAccountIDKey, claims.AccountID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// ActiveAccount loads the authenticated account and attaches it as the
// request principal. Deleted accounts are rejected with 401, blocked ones with
// 403 and the is_blocked flag; store failures are 500. Must run after Auth.
func ActiveAccount(loader PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := loader.Principal(c.Request.Context(), c.GetString(CtxAccountIDKey))
		switch {
		case errors.Is(err, application.ErrInvalidSession):
			unauthorized(c, "account no longer exists")
			return
		case err != nil:
			internalError(c, err)
			return
		}
		if a.IsBlocked {
			response.Abort(c, http.StatusForbidden, policy.ErrAccountBlocked.Message, response.ErrorBody{
				Code:      "forbidden",
				Reason:    policy.ErrAccountBlocked.Code,
				IsBlocked: true,
			})
			return
		}
		c.Set(CtxPrincipalKey, a.Principal())
		c.Next()
	}
}

// RequireAdmin rejects principals without the admin role. Must run after ActiveAccount.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).IsAdmin() {
			response.Abort(c, http.StatusForbidden, policy.ErrAdminOnly.Message, response.ErrorBody{
				Code:   "forbidden",
				Reason: policy.ErrAdminOnly.Code,
			})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the request principal, or the anonymous principal.
func PrincipalFrom(c *gin.Context) entity.Principal {
	if v, ok := c.Get(CtxPrincipalKey); ok {
		if p, ok := v.(entity.Principal); ok {
			return p
		}
	}
	return entity.Principal{}
}
