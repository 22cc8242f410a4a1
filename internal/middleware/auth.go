package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"postalservice/internal/common"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
)

// Auth rejects requests whose API key is not one of validKeys. The key is
// read from X-API-Key, falling back to an "Authorization: Bearer" header.
// Blank entries in validKeys are ignored.
func Auth(validKeys []string) gin.HandlerFunc {
	digests := make([][sha256.Size]byte, 0, len(validKeys))
	for _, k := range validKeys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(c *gin.Context) {
		key := extractKey(c)
		if key == "" {
			common.Abort(c, http.StatusUnauthorized, "missing API key")
			return
		}

		if !matchKey(key, digests) {
			slog.Warn("rejected API key",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
			)
			common.Abort(c, http.StatusUnauthorized, "invalid API key")
			return
		}

		c.Next()
	}
}

func extractKey(c *gin.Context) string {
	if key := c.GetHeader(apiKeyHeader); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// matchKey compares fixed-size digests so the comparison time does not
// depend on key length. Every candidate is checked.
func matchKey(key string, digests [][sha256.Size]byte) bool {
	sum := sha256.Sum256([]byte(key))
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(sum[:], digests[i][:])
	}
	return found == 1
}
