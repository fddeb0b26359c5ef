package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/service"
)

// SessionLookup resolves a bearer token to a session. Production wiring uses
// service.GetSessionByToken; tests inject a fake.
type SessionLookup func(ctx context.Context, token string) (service.Session, error)

const sessionContextKey = "mlshelf.session"

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// AuthOptional attaches the session when a valid token is present and lets
// everyone else through unauthenticated.
func AuthOptional(lookup SessionLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.Next()
			return
		}

		session, err := lookup(ctx.Request.Context(), token)
		if err == nil {
			ctx.Set(sessionContextKey, session)
		}
		ctx.Next()
	}
}

// AuthRequired rejects requests without a valid session.
func AuthRequired(lookup SessionLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrSessionTokenRequired.Error()})
			return
		}

		session, err := lookup(ctx.Request.Context(), token)
		if err != nil {
			writeHTTPError(ctx, err)
			ctx.Abort()
			return
		}

		ctx.Set(sessionContextKey, session)
		ctx.Next()
	}
}

// CurrentSession returns the session the auth middleware attached, if any.
func CurrentSession(ctx *gin.Context) (service.Session, bool) {
	value, ok := ctx.Get(sessionContextKey)
	if !ok {
		return service.Session{}, false
	}
	session, ok := value.(service.Session)
	return session, ok
}
