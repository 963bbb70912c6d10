package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func tokenFor(t *testing.T, userID string, role model.UserRole) string {
	token, err := util.GenerateToken(userID, userID+"@example.com", string(role), testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB := setupTestDB(t)

	authService := service.NewAuthService(repository.NewUserRepository(testDB), nil, testSecret, 120*time.Hour)
	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware(testSecret, nil)

	router := gin.New()
	router.POST("/signup", ctrl.Signup)
	router.POST("/login", ctrl.Login)
	router.POST("/logout", authMiddleware.OptionalAuthenticate(), ctrl.Logout)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.PUT("/me", authMiddleware.Authenticate(), ctrl.UpdateMe)
	return router
}

func signupBody(email string) SignupRequest {
	return SignupRequest{FullName: "Jane Doe", Email: email, Password: "secret1", ConfirmPassword: "secret1"}
}

func TestAuthController_Signup_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody("jane@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["_id"])
	assert.Equal(t, "Jane Doe", body["fullName"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "user", body["role"])
	assert.NotEmpty(t, body["jwt"])
	assert.NotContains(t, body, "password")

	header := w.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "))
	assert.Equal(t, body["jwt"], strings.TrimPrefix(header, "Bearer "))
}

func TestAuthController_Signup_Failures(t *testing.T) {
	router := setupAuthControllerTest(t)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/signup", signupBody("jane@example.com"), "").Code)

	mismatch := signupBody("bob@example.com")
	mismatch.ConfirmPassword = "other"

	tests := []struct {
		name    string
		body    interface{}
		code    string
		message string
	}{
		{"Password mismatch", mismatch, "AUTH_PASSWORD_MISMATCH", "Password did not match"},
		{"Duplicate email", signupBody("jane@example.com"), "AUTH_EMAIL_EXISTS", "username already exists"},
		{"Invalid email", signupBody("not-an-email"), "VALIDATION_INVALID_INPUT", ""},
		{"Missing fields", map[string]string{"email": "x@example.com"}, "VALIDATION_INVALID_INPUT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.code, body["error"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			assert.Empty(t, w.Header().Get("Authorization"))
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	router := setupAuthControllerTest(t)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/signup", signupBody("jane@example.com"), "").Code)

	w := doJSON(t, router, http.MethodPost, "/login", LoginRequest{Email: "jane@example.com", Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "user", body["role"])
	assert.NotContains(t, body, "jwt")
	assert.True(t, strings.HasPrefix(w.Header().Get("Authorization"), "Bearer "))

	w = doJSON(t, router, http.MethodPost, "/login", LoginRequest{Email: "jane@example.com", Password: "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", body["error"])
	assert.Equal(t, "Invalid email or password", body["message"])

	w = doJSON(t, router, http.MethodPost, "/login", LoginRequest{Email: "nobody@example.com", Password: "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])
}

func TestAuthController_MeAndLogout(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody("jane@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["jwt"].(string)

	w = doJSON(t, router, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@example.com", decodeBody(t, w)["email"])

	w = doJSON(t, router, http.MethodPut, "/me", UpdateProfileRequest{FullName: "Jane Smith"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane Smith", decodeBody(t, w)["fullName"])

	w = doJSON(t, router, http.MethodPut, "/me", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/me", nil, tokenFor(t, "ghost", model.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, tok := range []string{token, ""} {
		w = doJSON(t, router, http.MethodPost, "/logout", nil, tok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Logged out successfully", decodeBody(t, w)["message"])
	}
}
