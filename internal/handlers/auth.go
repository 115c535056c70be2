package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/solacejournal/solace-backend/internal/apperrors"
	"github.com/solacejournal/solace-backend/internal/config"
	"github.com/solacejournal/solace-backend/internal/middleware"
	"github.com/solacejournal/solace-backend/internal/models"
	"github.com/solacejournal/solace-backend/internal/services"
	"github.com/solacejournal/solace-backend/pkg/utils"
)

// UserAccounts is the slice of account operations the auth handlers use.
// services.UserService is the production implementation.
type UserAccounts interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	CreatePasswordResetToken(ctx context.Context, email string) (string, *models.User, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

var (
	userService  UserAccounts
	tokenService *services.TokenService
	mailer       *services.Mailer
	frontendURL  string
)

// InitAuthHandlers wires the auth handlers to their services.
func InitAuthHandlers(cfg *config.Config, users UserAccounts, tokens *services.TokenService, mail *services.Mailer) {
	userService = users
	tokenService = tokens
	mailer = mail
	frontendURL = cfg.FrontendURL
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func publicUser(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID.Hex(),
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

// Register handles user registration.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Username = utils.NormalizeUsername(req.Username)
	req.Email = utils.NormalizeEmail(req.Email)

	if verr := utils.ValidateUsername(req.Username); verr != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: verr.Error()})
		return
	}
	if verr := utils.ValidateEmail(req.Email); verr != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: verr.Error()})
		return
	}
	if verr := utils.ValidatePassword(req.Password); verr != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: verr.Error()})
		return
	}

	user, err := userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			writeJSON(w, http.StatusConflict, AuthResponse{Success: false, Message: "An account with that email or username already exists"})
			return
		}
		log.Printf("⚠️ Register failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create account"})
		return
	}

	token, err := tokenService.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("⚠️ Token issue failed after register: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    publicUser(user),
		Token:   token,
	})
}

// Login handles user sign-in.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Email and password are required"})
		return
	}

	user, err := userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Wrong email and wrong password are indistinguishable on purpose.
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid email or password"})
			return
		}
		// A database outage is a server fault, not bad credentials.
		log.Printf("⚠️ Login failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to sign in"})
		return
	}

	token, err := tokenService.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("⚠️ Token issue failed after login: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    publicUser(user),
		Token:   token,
	})
}

// Logout revokes the presented token.
func Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		if err := tokenService.Revoke(r.Context(), token); err != nil {
			log.Printf("⚠️ Token revoke failed: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Logged out successfully"})
}

// Me returns the authenticated user's profile.
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	user, err := userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, AuthResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("⚠️ Profile lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to load profile"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: publicUser(user)})
}

// ForgotPassword issues a password reset token and emails a reset link.
// The response never reveals whether the email exists.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Email is required"})
		return
	}

	const neutral = "If an account with that email exists, a reset link has been sent"

	rawToken, user, err := userService.CreatePasswordResetToken(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("⚠️ Password reset token creation failed: %v", err)
		}
		writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: neutral})
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(frontendURL, "/"), rawToken)
	if err := mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Printf("⚠️ Password reset email failed: %v", err)
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: neutral})
}

// ResetPassword consumes a reset token and sets a new password.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Reset token is required"})
		return
	}
	if verr := utils.ValidatePassword(req.Password); verr != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: verr.Error()})
		return
	}

	if err := userService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid or expired reset token"})
			return
		}
		log.Printf("⚠️ Password reset failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to reset password"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password has been reset successfully"})
}
