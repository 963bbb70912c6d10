package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type SignupRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"_id":      user.ID,
		"fullName": user.FullName,
		"email":    user.Email,
		"role":     user.Role,
	}
}

func setTokenHeader(c *gin.Context, token string) {
	c.Header("Authorization", "Bearer "+token)
}

// Signup handles user registration
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Full name, a valid email, password and confirmPassword are required")
		return
	}

	user, token, err := ctrl.authService.Signup(c.Request.Context(), service.SignupInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			apperrors.BadRequest(c, apperrors.AuthPasswordMismatch, "Password did not match")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, "username already exists")
		case errors.Is(err, service.ErrInvalidName):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Full name is required")
		default:
			log.Error("Signup failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create user")
		}
		return
	}

	log.Info("User signed up", map[string]interface{}{
		"user_id": user.ID,
	})

	body := userResponse(user)
	body["jwt"] = token
	setTokenHeader(c, token)
	c.JSON(http.StatusOK, body)
}

// Login handles user login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	setTokenHeader(c, token)
	c.JSON(http.StatusOK, userResponse(user))
}

// Logout revokes the presented token when revocation is configured.
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if token, claims, ok := middleware.GetAuthToken(c); ok {
		if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
			log.Error("Logout failed", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "logout")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetMe returns the authenticated user
// GET /api/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Deleted account holding a still valid token.
			apperrors.Unauthorized(c, "User no longer exists")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateMe changes the profile of the authenticated user
// PUT /api/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Full name is required")
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Full name is required")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.Unauthorized(c, "User no longer exists")
		default:
			log.Error("Profile update failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}
