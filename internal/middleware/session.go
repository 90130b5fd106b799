package middleware

import (
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerIDKey is the key used to store the owner id in the session and in
// the gin context.
const OwnerIDKey = observability.OwnerSessionKey

// RequireSession makes sure the session carries a valid owner id, issuing
// a new one when it is missing or malformed. The id is exposed on the gin
// context and the request context.
func RequireSession(logger *observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return func(c *gin.Context) {
		session := sessions.Default(c)
		owner, _ := session.Get(OwnerIDKey).(string)

		if !contextutils.IsValidUUID(owner) {
			owner = uuid.NewString()
			session.Set(OwnerIDKey, owner)
			if err := session.Save(); err != nil {
				logger.Error(c.Request.Context(), "Failed to save session", err)
				HandleAppError(c, contextutils.WrapError(contextutils.ErrInternalError, "failed to save session"))
				c.Abort()
				return
			}
			logger.Debug(c.Request.Context(), "Issued new session owner id", map[string]interface{}{"owner_id": owner})
		}

		c.Set(OwnerIDKey, owner)
		c.Request = c.Request.WithContext(contextutils.WithOwnerID(c.Request.Context(), owner))
		c.Next()
	}
}

// OwnerID returns the owner id set by RequireSession.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}
