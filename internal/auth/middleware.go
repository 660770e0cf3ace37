package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/protocolbanks/x402-api/internal/db"
)

const (
	// ContextUserIDKey is the gin context key holding the authenticated user id.
	ContextUserIDKey = "userID"
	apiKeyHeader     = "X-API-Key"
)

// validateAPIKey looks up the hashed key and returns the owning user.
// Keys are stored hashed, so a leaked database dump does not leak keys.
func validateAPIKey(c *gin.Context, queries db.Querier, apiKey string) (db.User, db.ApiKey, error) {
	hash := sha256.Sum256([]byte(apiKey))

	key, err := queries.GetAPIKeyByHash(c.Request.Context(), hex.EncodeToString(hash[:]))
	if err != nil {
		return db.User{}, db.ApiKey{}, fmt.Errorf("invalid API key")
	}

	if key.ExpiresAt.Valid && key.ExpiresAt.Time.Before(time.Now()) {
		return db.User{}, db.ApiKey{}, fmt.Errorf("API key has expired")
	}

	user, err := queries.GetUser(c.Request.Context(), key.UserID)
	if err != nil {
		return db.User{}, db.ApiKey{}, fmt.Errorf("invalid user")
	}

	return user, key, nil
}

// EnsureValidAPIKey is a middleware that requires a valid API key in the
// X-API-Key header and sets the authenticated user on the context.
func EnsureValidAPIKey(queries db.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(apiKeyHeader)
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authentication provided"})
			c.Abort()
			return
		}

		user, _, err := validateAPIKey(c, queries, apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID.String())
		c.Next()
	}
}

// UserIDFromContext extracts the authenticated user id set by the
// middleware.
func UserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(ContextUserIDKey)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return uuid.Parse(raw)
}
