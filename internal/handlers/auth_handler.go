package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"quantumpartners/internal/config"
	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/logger"
	"quantumpartners/internal/mailer"
	"quantumpartners/internal/middleware"
	"quantumpartners/internal/models"
	"quantumpartners/internal/services"
)

// AuthHandler handles registration, login, activation and credential state.
type AuthHandler struct {
	userService         services.UserServicer
	notificationService services.NotificationServicer
	mail                mailer.Mailer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, notificationService services.NotificationServicer, mail mailer.Mailer) *AuthHandler {
	return &AuthHandler{
		userService:         userService,
		notificationService: notificationService,
		mail:                mail,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" binding:"required,max=30"`
	Nationality string `json:"nationality" binding:"required,max=100"`
	Fullname    string `json:"fullname" binding:"required,max=100"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload. Identifier is an email
// address or a username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new, unactivated user and email the activation key
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} map[string]interface{} "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, activationKey, err := h.userService.CreateUser(req.Username, req.Email, req.Phone, req.Nationality, req.Fullname, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Registration succeeds even when the activation email cannot be sent;
	// the key can be re-requested.
	if err := h.mail.SendActivationEmail(user.Email, user.Fullname, activationKey); err != nil {
		logger.Get().Errorw("activation email failed", "error", err, "user_id", user.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"data": gin.H{
			"user":    user.Profile(),
			"message": "Please check your email for activation instructions",
		},
	})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate by email or username and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     403 {object} ErrorResponse "Account not activated"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.FindByEmailOrUsername(req.Identifier)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !user.IsActivated {
		respondWithError(c, apperrors.ErrNotActivated)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"user":  user.Profile(),
			"token": token,
		},
	})
}

// GetCurrentUser returns the authenticated user's profile
// @Summary     Get current user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Profile
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User fetched successfully",
		"data":    gin.H{"user": user.Profile()},
	})
}

// ActivateRequest carries the activation key exchanged for account access.
type ActivateRequest struct {
	ActivationKey string `json:"activation_key" binding:"required"`
}

// Activate consumes an activation key and activates the account
// @Summary     Activate account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ActivateRequest true "Activation key"
// @Success     200 {object} map[string]interface{} "Account activated"
// @Failure     400 {object} ErrorResponse "Invalid key or already activated"
// @Router      /auth/activate [post]
func (h *AuthHandler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Activate(req.ActivationKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notificationService.Append(user.ID, models.NotificationTypeActivation, "Account activated successfully")

	c.JSON(http.StatusOK, gin.H{
		"message": "Account activated successfully",
		"data":    gin.H{"user": user.Profile()},
	})
}

// EmailRequest carries a bare email address.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestActivationKey re-issues and emails a fresh activation key.
// Unlike the other mail-sending endpoints, a delivery failure here is
// surfaced: the whole point of the call is the email.
// @Summary     Request a new activation key
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body EmailRequest true "Account email"
// @Success     200 {object} map[string]interface{} "Key sent"
// @Failure     400 {object} ErrorResponse "Already activated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/actkeyrequest [post]
func (h *AuthHandler) RequestActivationKey(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, key, err := h.userService.RegenerateActivationKey(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.mail.SendActivationEmail(user.Email, user.Fullname, key); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrEmailDelivery, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activation key sent successfully",
		"data":    gin.H{"message": "Please check your email for the activation key"},
	})
}

// ForgotPassword issues a reset token. The response does not reveal whether
// the email is registered.
// @Summary     Request a password reset
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body EmailRequest true "Account email"
// @Success     200 {object} map[string]interface{} "Reset instructions sent"
// @Router      /auth/forgotpwd [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, token, err := h.userService.GenerateResetToken(req.Email)
	if err != nil {
		// Same response as the success path so account existence stays private.
		c.JSON(http.StatusOK, gin.H{
			"message": "If an account with this email exists, a password reset link has been sent",
		})
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		config.Get().FrontendURL, token, url.QueryEscape(user.Email))
	if err := h.mail.SendPasswordResetEmail(user.Email, user.Fullname, resetLink); err != nil {
		logger.Get().Errorw("password reset email failed", "error", err, "user_id", user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset instructions sent",
		"data":    gin.H{"message": "Please check your email for password reset instructions"},
	})
}

// ChangePasswordRequest carries a reset token and the replacement password.
type ChangePasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

// ChangePassword sets a new password using a time-boxed reset token.
// @Summary     Change password with reset token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ChangePasswordRequest true "Reset token and new password"
// @Success     200 {object} map[string]interface{} "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid or expired token"
// @Router      /auth/changepwd [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.ChangePasswordWithToken(req.Token, req.NewPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notificationService.Append(user.ID, models.NotificationTypePasswordChange, "Password changed via reset token")
	if err := h.mail.SendPasswordChangeAlert(user.Email, user.Fullname); err != nil {
		logger.Get().Errorw("password change alert failed", "error", err, "user_id", user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
		"data":    gin.H{"message": "Your password has been updated"},
	})
}

// UpdatePasswordRequest carries the current and replacement passwords.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// UpdatePassword changes the password of the authenticated user.
// @Summary     Update password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePasswordRequest true "Current and new password"
// @Success     200 {object} map[string]interface{} "Password updated"
// @Failure     400 {object} ErrorResponse "Current password incorrect"
// @Router      /auth/updatepwd [post]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdatePassword(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notificationService.Append(user.ID, models.NotificationTypePasswordChange, "Password changed from authenticated session")
	if err := h.mail.SendPasswordChangeAlert(user.Email, user.Fullname); err != nil {
		logger.Get().Errorw("password change alert failed", "error", err, "user_id", user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
		"data":    gin.H{"message": "Your password has been updated"},
	})
}

// UpdateInfoRequest carries the mutable contact fields; empty fields are
// left unchanged.
type UpdateInfoRequest struct {
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	Nationality string `json:"nationality" binding:"omitempty,max=100"`
	Fullname    string `json:"fullname" binding:"omitempty,max=100"`
}

// UpdateInfo updates the authenticated user's contact details.
// @Summary     Update user information
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateInfoRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "User updated"
// @Router      /auth/updateinfo [post]
func (h *AuthHandler) UpdateInfo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateInfo(userID, req.Phone, req.Nationality, req.Fullname)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User information updated successfully",
		"data":    gin.H{"user": user.Profile()},
	})
}

// DeleteNotification removes one entry from the user's feed.
// @Summary     Delete a notification
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} map[string]interface{} "Notification deleted"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /auth/notifications/{id} [delete]
func (h *AuthHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.Delete(userID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// ClearNotifications removes every entry from the user's feed.
// @Summary     Clear all notifications
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Notifications cleared"
// @Router      /auth/notifications/clear [post]
func (h *AuthHandler) ClearNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.Clear(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared"})
}
