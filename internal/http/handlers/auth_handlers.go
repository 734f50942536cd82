package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/medsync/domain"
)

// AuthHandlers handles authentication HTTP requests using clean architecture
type AuthHandlers struct {
	authSvc   domain.AuthService
	otpExpiry time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpExpiry time.Duration) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		otpExpiry: otpExpiry,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department,omitempty"`
}

// VerifyOTPRequest represents OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ResendOTPRequest represents OTP resend request
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest represents login request. The identifier may arrive
// under several keys; the first non-empty one wins.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	UserCode   string `json:"user_code"`
	Password   string `json:"password" binding:"required"`
}

func (r *LoginRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.UserCode} {
		if v != "" {
			return v
		}
	}
	return ""
}

// ForgotPasswordRequest represents a password-reset initiation request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password-reset completion request
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// RegisterInfo answers GET /auth/register with a usage hint.
func (h *AuthHandlers) RegisterInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "POST full_name, email, password, role, (department if Doctor). You'll receive an OTP to verify email before account creation.",
	})
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.Register(c.Request.Context(), req.FullName, req.Email, req.Password, req.Role, req.Department)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent to " + req.Email + ". Please verify within " + minutes(h.otpExpiry) + " minutes via /auth/verify-otp.",
	})
}

// VerifyOTP completes a pending registration
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.CompleteRegistration(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPendingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending registration found for this email or it has expired."})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired. Please register again."})
		case errors.Is(err, domain.ErrOTPInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP."})
		case errors.Is(err, domain.ErrPersistence):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	response := gin.H{
		"message":      "Registration verified and completed.",
		"user":         result.User,
		"email_status": result.EmailStatus,
	}
	if result.GeneratedCode != "" {
		response["generated_code"] = result.GeneratedCode
	}
	if result.Note != "" {
		response["note"] = result.Note
	}
	c.JSON(http.StatusCreated, response)
}

// ResendOTP refreshes the OTP of a pending registration
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already registered. Please login instead."})
		case errors.Is(err, domain.ErrPendingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending registration found for this email. Please register again."})
		case errors.Is(err, domain.ErrRegistrationCheck):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify registration status. Please try again."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A new OTP has been sent to " + req.Email + ". It will expire in " + minutes(h.otpExpiry) + " minutes.",
	})
}

// Login handles user login by email or user code
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identifier := req.identifier()
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifier (email or user code) and password are required."})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password."})
		case errors.Is(err, domain.ErrCodeLookupUnsupported):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Login by user code is not available. Ensure the user code column exists in the users table."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"user":    result.User,
		"token":   result.Token,
	})
}

// ForgotPassword issues a password-reset OTP
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset OTP sent to " + req.Email + "."})
}

// ResetPassword completes a password reset
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		case errors.Is(err, domain.ErrOTPWrongPurpose):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This OTP is not valid for password reset."})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired."})
		case errors.Is(err, domain.ErrOTPInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

// Me returns the authenticated identity (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identity not found in context"})
		return
	}
	tc, ok := claims.(*domain.TokenClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Malformed identity in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   tc.UserID,
		"email":     tc.Email,
		"role":      tc.Role,
		"full_name": tc.FullName,
	})
}

func minutes(d time.Duration) string {
	m := int(d.Minutes())
	if m <= 0 {
		m = 1
	}
	return strconv.Itoa(m)
}
