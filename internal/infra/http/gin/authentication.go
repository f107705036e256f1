package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/policies"
)

const (
	viewerKey    = "viewer_id"
	sessionCooky = "homestay_session"
)

// Authentication resolves the viewer from a bearer token or the session
// cookie and stashes the id in the request context. Requests without a
// valid token proceed anonymously; protected handlers gate on
// requireViewer.
func Authentication(tokens policies.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCooky); err == nil {
				token = cookie
			}
		}
		if token != "" {
			if userID, err := tokens.Verify(token); err == nil {
				c.Set(viewerKey, userID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// requireViewer aborts with 401 when no authenticated viewer is present.
func requireViewer(c *gin.Context) (string, bool) {
	id := c.GetString(viewerKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return "", false
	}
	return id, true
}
