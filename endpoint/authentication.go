package endpoint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/config"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/middleware"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/zhanbolat3094-ctrl/HealthSignalAI/util"
)

const (
	lockoutThreshold = 5
	lockoutDuration  = 15 * time.Minute
	sessionLifetime  = time.Hour
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role   string `json:"role" example:"User"`
	UserID uint   `json:"user_id" example:"1"`
}

// bindJSONOrRespond binds the request body into dst, answering 400 on failure.
func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// getDBOrRespond fetches the request-scoped DB handle, answering 500 when the
// middleware did not provide one.
func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// Login godoc
// @Summary      User login
// @Description  Authenticate user with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ip := c.ClientIP()
	agent := c.Request.UserAgent()

	var user model.User
	err := db.Where("email = ?", req.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(req.Email, ip, agent, "user not found")
		// Same message as the wrong-password case so the endpoint cannot be
		// used to probe which emails have accounts.
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("user not found")})
		return
	}
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "database error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		until := time.Unix(*user.LockedUntil, 0)
		util.LogLoginFailure(req.Email, ip, agent, "account locked")
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", until.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return
	}

	match, err := util.VerifyPassword(req.Password, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "password verification error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		registerFailedLogin(db, &user, ip, agent)
		util.LogLoginFailure(req.Email, ip, agent, "invalid password")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid password")})
		return
	}

	clearLockout(db, &user, ip)
	upgradeLegacyPassword(db, &user, req.Password, ip)

	var role model.Role
	if err := db.Where("id = ?", user.RoleID).First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.LogLoginFailure(req.Email, ip, agent, "role not found")
			util.CallUserError(c, util.APIErrorParams{Msg: "Role not found", Err: fmt.Errorf("role not found")})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	tokenString, err := issueSessionToken(user)
	if err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "token generation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session := model.Session{
		UserID:       user.ID,
		SessionToken: tokenString,
		ExpiresAt:    time.Now().Add(sessionLifetime),
		ClientIP:     ip,
		Browser:      agent,
	}
	if err := db.Create(&session).Error; err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "session creation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	cacheSessionInRedis(session, role.ID)

	util.UserEmailCacheSet(user.ID, user.Email)
	util.LogLoginSuccess(user.ID, user.Email, ip, agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: tokenString, Role: role.Name, UserID: user.ID},
	})
}

// registerFailedLogin bumps the failure counter and locks the account once
// the threshold is reached.
func registerFailedLogin(db *gorm.DB, user *model.User, ip, agent string) {
	user.FailedAttempts++
	if user.FailedAttempts >= lockoutThreshold {
		lockUntil := time.Now().Add(lockoutDuration).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.ID, user.Email, ip, "too many failed login attempts")
	}
	if err := db.Save(user).Error; err != nil {
		util.LogLoginFailure(user.Email, ip, agent, "failed to update failed attempts")
	}
}

// clearLockout resets the failure counter after a successful login.
func clearLockout(db *gorm.DB, user *model.User, ip string) {
	if user.FailedAttempts == 0 && user.LockedUntil == nil {
		return
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	if err := db.Save(user).Error; err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Email:     user.Email,
			IP:        ip,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}
}

// upgradeLegacyPassword rehashes accounts still carrying the old HMAC hash
// now that the plaintext is known to be correct. Best-effort.
func upgradeLegacyPassword(db *gorm.DB, user *model.User, plain, ip string) {
	if strings.HasPrefix(user.Password, "argon2id$") {
		return
	}
	salt, err := util.GenerateSalt()
	if err != nil {
		return
	}
	hashed, err := util.HashPasswordArgon2(plain, salt)
	if err != nil {
		return
	}
	user.Password = hashed
	user.PasswordSalt = salt
	if err := db.Save(user).Error; err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Email:     user.Email,
			IP:        ip,
			Message:   fmt.Sprintf("Failed to upgrade password hash: %v", err),
		})
		return
	}
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventPasswordChanged,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        ip,
		Message:   "Upgraded password hash to Argon2",
	})
}

// issueSessionToken signs a short-lived JWT carrying the user's identity.
func issueSessionToken(user model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"exp":   time.Now().Add(sessionLifetime).Unix(),
		"role":  user.RoleID,
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// cacheSessionInRedis mirrors the session into Redis so token validation can
// skip the DB. Best-effort: without Redis the sessions table serves lookups.
func cacheSessionInRedis(session model.Session, roleID uint32) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return
	}
	val := fmt.Sprintf("%d:%d", session.UserID, roleID)
	_ = rdb.Set(context.Background(), fmt.Sprintf("session:%s", session.SessionToken), val, time.Until(session.ExpiresAt)).Err()
	_ = util.AddSessionToUserSet(session.UserID, session.SessionToken)
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the user session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      400 {object} util.APIResponse "Session not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session token not provided",
			Err: fmt.Errorf("session token not provided"),
		})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Session not found",
			Err: err,
		})
		return
	}

	var user model.User
	if err := db.First(&user, session.UserID).Error; err == nil {
		util.LogLogout(user.ID, user.Email, c.ClientIP(), c.Request.UserAgent())
	}

	if err := db.Where("session_token = ?", sessionToken).Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete session",
			Err: err,
		})
		return
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		_ = rdb.Del(context.Background(), fmt.Sprintf("session:%s", sessionToken)).Err()
		_ = util.RemoveSessionTokenFromUserSet(session.UserID, sessionToken)
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Logout successful",
	})
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"John Doe"`
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// Signup godoc
// @Summary      User signup
// @Description  Register a new user account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      200 {object} util.APIResponse{data=string} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var existing model.User
	err := db.First(&existing, "email = ?", req.Email).Error
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: fmt.Errorf("email already exists")})
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return
	}
	hashedPassword, err := util.HashPasswordArgon2(req.Password, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}

	newUser := model.User{
		Name:         util.NormalizeName(req.Name),
		Email:        req.Email,
		Password:     hashedPassword,
		PasswordSalt: salt,
		RoleID:       defaultRoleID(db),
	}
	if err := db.Create(&newUser).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", newUser.ID),
		Email:     newUser.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "User signed up successfully",
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   newUser.Email,
		"exp":     time.Now().Add(sessionLifetime).Unix(),
		"role_id": newUser.RoleID,
	})
	tokenString, err := token.SignedString(util.GetJWTSecretByte())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Signup successful",
		Data: tokenString,
	})
}

// defaultRoleID resolves the seeded "User" role, falling back to the first role.
func defaultRoleID(db *gorm.DB) uint32 {
	var role model.Role
	if err := db.Where("name = ?", model.RoleUser).First(&role).Error; err == nil {
		return role.ID
	}
	return 1
}

// VerifyPasswordRequest represents the request body for password verification
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// VerifyPassword godoc
// @Summary      Verify current user's password
// @Description  Validate the provided current password for the authenticated user
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body VerifyPasswordRequest true "Password to verify"
// @Success      200 {object} util.APIResponse "Password verified"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid password or unauthorized"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /verify-password [post]
func VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("user id not found in context"),
		})
		return
	}

	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{
				Msg: "User not found",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve user",
			Err: err,
		})
		return
	}

	match, err := util.VerifyPassword(req.Password, user.Password, user.PasswordSalt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Password verification failed",
			Err: err,
		})
		return
	}
	if !match {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid password",
			Err: fmt.Errorf("provided password does not match"),
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Password verified",
		Data: map[string]bool{"verified": true},
	})
}
