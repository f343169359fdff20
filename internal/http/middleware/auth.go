package middleware

import (
	"intercity/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionPhoneKey = "session_phone"

// SessionOptional reads a bearer session token when present and exposes its
// phone number to handlers. Requests without a valid token pass through.
func SessionOptional(signer *session.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := session.FromHeader(c.GetHeader("Authorization")); tok != "" && signer.Enabled() {
			if claims, err := signer.Parse(tok); err == nil {
				c.Set(sessionPhoneKey, claims.Phone)
			}
		}
		c.Next()
	}
}

// SessionPhone returns the phone number of the caller's session, if any.
func SessionPhone(c *gin.Context) string {
	if v, ok := c.Get(sessionPhoneKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
