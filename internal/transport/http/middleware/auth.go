package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/gravity-four/backend/pkg/auth"
	"github.com/iamasit07/gravity-four/backend/pkg/httputil"
)

const participantKey = "participant_uuid"

// AuthMiddleware validates the participant token and stores the participant
// uuid on the context
func AuthMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := verifier.ValidateParticipantToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(participantKey, claims.ParticipantUUID())
		c.Next()
	}
}

// Participant returns the uuid stored by AuthMiddleware
func Participant(c *gin.Context) (string, bool) {
	id := c.GetString(participantKey)
	return id, id != ""
}
