package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/auth"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	IdentityKey   = "caller_identity"
	SessionKey    = "caller_session"
	AuthHeaderKey = "Authorization"
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// IdentityResolver maps a verified session to the caller's identity
type IdentityResolver interface {
	Resolve(ctx context.Context, session *auth.Session) (*identity.Identity, error)
}

// SessionAuthConfig holds configuration for session authentication
type SessionAuthConfig struct {
	Verifier TokenVerifier
	Resolver IdentityResolver
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// SessionAuth verifies the bearer token, resolves the caller identity and stores both
// on the gin context. Requests without a valid session are answered with 401.
func SessionAuth(cfg SessionAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		session, err := cfg.Verifier.Verify(auth.BearerToken(c.GetHeader(AuthHeaderKey)))
		if err != nil {
			logger.Enrich(c.Request.Context(), log).Debug("session rejected",
				zap.Error(err),
				zap.String("path", path),
			)
			abortUnauthenticated(c, sessionErrorMessage(err))
			return
		}

		caller, err := cfg.Resolver.Resolve(c.Request.Context(), session)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthenticated) {
				abortUnauthenticated(c, shared.ErrUnauthenticated.Message)
				return
			}
			logger.Enrich(c.Request.Context(), log).Error("identity resolution failed",
				zap.String("subject", session.Subject.String()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, dto.InternalErrorMessage, GetRequestID(c)))
			return
		}

		c.Set(SessionKey, session)
		c.Set(IdentityKey, caller)
		c.Request = c.Request.WithContext(logger.WithProfileID(c.Request.Context(), caller.ProfileID.String()))
		c.Next()
	}
}

// GetIdentity returns the caller identity stored by SessionAuth, or nil
func GetIdentity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*identity.Identity)
	return id
}

// RequirePermission rejects callers that lack p with 403
func RequirePermission(p identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetIdentity(c)
		if caller == nil {
			abortUnauthenticated(c, shared.ErrUnauthenticated.Message)
			return
		}
		if !identity.HasPermission(caller, p) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				shared.CodeForbidden,
				"Forbidden: missing permission "+p.String(),
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session has expired"
	default:
		return "Invalid session"
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthenticated, message, GetRequestID(c)))
}
