package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/config"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
	"github.com/gin-gonic/gin"
)

// Context keys set by ValidateLoginToken.
const (
	UserIDKey = "user_id"
	RoleIDKey = "role_id"
)

// ValidateLoginToken authenticates a request via the session-token header.
// Redis is consulted first (key "session:<token>" holding "<userID>:<roleID>"),
// falling back to the sessions table when Redis is unavailable or misses.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetHeader("session-token")
		if sessionToken == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token not provided",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		if userID, roleID, ok := lookupSessionInRedis(sessionToken); ok {
			c.Set(UserIDKey, userID)
			c.Set(RoleIDKey, roleID)
			c.Next()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var session model.Session
		err := db.Where("session_token = ? AND expires_at > ?", sessionToken, time.Now()).First(&session).Error
		if err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session token",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		var user model.User
		if err := db.First(&user, session.UserID).Error; err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid session",
				Err: fmt.Errorf("session user not found"),
			})
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(RoleIDKey, user.RoleID)
		c.Next()
	}
}

// lookupSessionInRedis resolves a session token to user and role IDs.
func lookupSessionInRedis(token string) (uint, uint32, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, 0, false
	}
	val, err := rdb.Get(context.Background(), fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return 0, 0, false
	}
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	userID, err1 := strconv.ParseUint(parts[0], 10, 64)
	roleID, err2 := strconv.ParseUint(parts[1], 10, 32)
	if err1 != nil || err2 != nil || userID == 0 {
		return 0, 0, false
	}
	return uint(userID), uint32(roleID), true
}

// GetUserID returns the authenticated user ID stored in the context.
func GetUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// GetRoleID returns the authenticated user's role ID stored in the context.
func GetRoleID(c *gin.Context) (uint32, bool) {
	val, exists := c.Get(RoleIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint32)
	return id, ok
}

// RequireRole allows the request through only when the authenticated user's
// role matches the given role name.
func RequireRole(roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, ok := GetRoleID(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Role not available",
				Err: fmt.Errorf("role id not found in context"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var role model.Role
		if err := db.First(&role, roleID).Error; err != nil || role.Name != roleName {
			userID, _ := GetUserID(c)
			util.LogUnauthorizedAccess(fmt.Sprintf("%d", userID), "", c.ClientIP(), c.Request.URL.Path, "insufficient role")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Insufficient permissions",
				Err: fmt.Errorf("role %q required", roleName),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
