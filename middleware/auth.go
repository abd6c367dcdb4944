package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dormify/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authTokenTTL refreshes the cache entry on each authenticated request.
const authTokenTTL = 72 * time.Hour

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
}

// authenticate validates the bearer token for the wanted role and returns
// the subject id. Tokens must both parse and still be present in the auth
// cache; sign-out removes the cache entry ahead of JWT expiry.
func authenticate(c *gin.Context, wantRole string) (primitive.ObjectID, bool) {
	token := bearerToken(c)
	if token == "" {
		abortUnauthorized(c)
		return primitive.NilObjectID, false
	}

	subject, role, err := utils.ExtractClaims(token)
	if err != nil || subject == "" || role != wantRole {
		abortUnauthorized(c)
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		abortUnauthorized(c)
		return primitive.NilObjectID, false
	}

	ctx := context.Background()
	key := utils.AuthCachePrefix + utils.HashToken(token)
	cached, err := utils.GetAuthCacheClient().Get(ctx, key).Result()
	if err == redis.Nil || (err == nil && cached != subject) {
		abortUnauthorized(c)
		return primitive.NilObjectID, false
	}
	if err == nil {
		_ = utils.GetAuthCacheClient().Expire(ctx, key, authTokenTTL).Err()
	}
	// On any other cache error the JWT's own validation carries the request.

	return id, true
}

// UserAuth guards endpoints for signed-in students.
func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := authenticate(c, utils.RoleUser)
		if !ok {
			return
		}
		c.Set("userID", id)
		c.Set("token", bearerToken(c))
		c.Next()
	}
}

// AdminAuth guards management endpoints.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := authenticate(c, utils.RoleAdmin)
		if !ok {
			return
		}
		c.Set("adminID", id)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user's id set by UserAuth.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
