// file: middlewares/auth.go
package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/JuanSign/iecom-itb/services"
	"github.com/JuanSign/iecom-itb/utils"
)

const claimsKey = "session_claims"

// SessionRequired validates the session cookie and stores the claims in the
// context. Every failure mode reads the same to the client: no cookie, bad
// signature and expiry are all just "Not authenticated."
func SessionRequired(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(services.SessionCookieName)
		if err != nil || token == "" {
			utils.Error(c, 4001, "Not authenticated.")
			c.Abort()
			return
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			utils.Error(c, 4001, "Not authenticated.")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// SessionClaims returns the claims stored by SessionRequired, or nil.
func SessionClaims(c *gin.Context) *services.SessionClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.SessionClaims)
	return claims
}
