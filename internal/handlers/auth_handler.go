package handlers

import (
	"log"
	"net/http"

	"carevoice/internal/auth"
	"carevoice/internal/service"
)

// AuthHandler serves the account lifecycle endpoints: signup, login, OAuth
// sign-in and password recovery.
type AuthHandler struct {
	accounts             *service.AccountService
	email                *service.EmailService
	tokens               *auth.TokenService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *service.AccountService, email *service.EmailService, tokens *auth.TokenService, providers map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		accounts:             accounts,
		email:                email,
		tokens:               tokens,
		oauthProviders:       providers,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type authResponse struct {
	apiResponse
	UserID string `json:"user_id,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email            string `json:"email"`
		Password         string `json:"password"`
		Name             string `json:"name"`
		Phone            string `json:"phone"`
		SecurityQuestion string `json:"security_question"`
		SecurityAnswer   string `json:"security_answer"`
		InviteCode       string `json:"invite_code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := h.accounts.Signup(service.SignupParams{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		Phone:            req.Phone,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
		Primary:          req.InviteCode == "",
		InviteCode:       req.InviteCode,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if h.email != nil && h.email.IsEnabled() {
		if err := h.email.SendWelcomeEmail(r.Context(), req.Email, req.Name); err != nil {
			log.Printf("failed to send welcome email to %s: %v", req.Email, err)
		}
	}

	token, err := h.tokens.Issue(userID, req.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Account created but login failed", "failed to issue token", err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		apiResponse: apiResponse{Success: true, Message: "Account created"},
		UserID:      userID,
		Token:       token,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, user, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(userID, user.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "failed to issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		apiResponse: apiResponse{Success: true, Message: "Login successful"},
		UserID:      userID,
		Token:       token,
	})
}

// VerifySecurityAnswer handles POST /api/password/verify-answer, the first
// step of password recovery.
func (h *AuthHandler) VerifySecurityAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Answer string `json:"answer"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := h.accounts.VerifySecurityAnswer(req.Email, req.Answer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		apiResponse: apiResponse{Success: true, Message: "Security answer verified"},
		UserID:      userID,
	})
}

// ResetPassword handles POST /api/password/reset, the second step of
// password recovery.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		NewPassword string `json:"new_password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.accounts.ResetPassword(req.UserID, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password reset successfully")
}

// SecurityQuestions handles GET /api/security-questions.
func (h *AuthHandler) SecurityQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"questions": service.SecurityQuestions,
	})
}
