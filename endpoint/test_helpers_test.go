package endpoint_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhanbolat3094-ctrl/HealthSignalAI/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SignupCreds groups the fields needed to create a test account.
type SignupCreds struct {
	Name     string
	Email    string
	Password string
}

// authHeaders builds the header set for an authenticated request.
func authHeaders(sessionToken string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer test-api-token",
		"session-token": sessionToken,
	}
}

// CreateAndLoginUser signs up and logs in a user, returning session token and user id.
// It fails the test on error.
func CreateAndLoginUser(t *testing.T, r http.Handler, creds SignupCreds) (string, uint) {
	t.Helper()

	signupBody := map[string]string{"name": creds.Name, "email": creds.Email, "password": creds.Password}
	b, _ := json.Marshal(signupBody)
	rr, err := doRequest(r, "POST", "/signup", b, map[string]string{"Authorization": "Bearer test-api-token"})
	if err != nil {
		t.Fatalf("signup %s failed: %v", creds.Email, err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("signup %s returned non-200: %d %s", creds.Email, rr.Code, rr.Body.String())
	}

	loginBody := map[string]string{"email": creds.Email, "password": creds.Password}
	b, _ = json.Marshal(loginBody)
	rr, err = doRequest(r, "POST", "/login", b, map[string]string{"Authorization": "Bearer test-api-token"})
	if err != nil {
		t.Fatalf("login %s failed: %v", creds.Email, err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s returned non-200: %d %s", creds.Email, rr.Code, rr.Body.String())
	}

	resp := ParseAPIResp(t, rr)
	var data struct {
		Token  string `json:"token"`
		Role   string `json:"role"`
		UserID uint   `json:"user_id"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("parse login data failed: %v", err)
	}
	return data.Token, data.UserID
}

// SetupServerWithUser initializes the server and returns a logged-in user session.
func SetupServerWithUser(t *testing.T, creds SignupCreds) (*gin.Engine, *gorm.DB, string, uint) {
	t.Helper()
	db := setupTestDB(t)
	r := setupTestRouter(db)

	token, userID := CreateAndLoginUser(t, r, creds)
	return r, db, token, userID
}

// PromoteToAdmin switches a user's role to Admin directly in the database.
// The caller must log in again afterwards so the session carries the new role.
func PromoteToAdmin(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		t.Fatalf("admin role missing: %v", err)
	}
	if err := db.Model(&model.User{}).Where("id = ?", userID).Update("role_id", adminRole.ID).Error; err != nil {
		t.Fatalf("failed to promote user %d: %v", userID, err)
	}
}

// LoginUser logs in an existing account and returns the session token.
func LoginUser(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rr, err := doRequest(r, "POST", "/login", b, map[string]string{"Authorization": "Bearer test-api-token"})
	if err != nil {
		t.Fatalf("login %s failed: %v", email, err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s returned non-200: %d %s", email, rr.Code, rr.Body.String())
	}
	resp := ParseAPIResp(t, rr)
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("parse login data failed: %v", err)
	}
	return data.Token
}

// SetupServerWithAdminAndUser initializes the server and returns admin and user sessions.
func SetupServerWithAdminAndUser(t *testing.T, userCreds SignupCreds) (*gin.Engine, *gorm.DB, string, string, uint) {
	t.Helper()
	db := setupTestDB(t)
	r := setupTestRouter(db)

	_, adminID := CreateAndLoginUser(t, r, SignupCreds{Name: "Admin User", Email: "admin@example.com", Password: "adminpass"})
	PromoteToAdmin(t, db, adminID)
	adminToken := LoginUser(t, r, "admin@example.com", "adminpass")

	userToken, userID := CreateAndLoginUser(t, r, userCreds)
	return r, db, adminToken, userToken, userID
}

// ParseAPIResp decodes a standard API response from a ResponseRecorder.
// It fails the test on decoding error.
func ParseAPIResp(t *testing.T, rr *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v; body: %s", err, rr.Body.String())
	}
	return resp
}

// ParseDataToMap unmarshals an API response Data field into a map[string]interface{}.
// It fails the test on error.
func ParseDataToMap(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("parse data failed: %v", err)
	}
	return data
}
