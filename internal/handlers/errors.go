package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"carevoice/internal/service"
	"carevoice/internal/validation"
)

// apiResponse is the plain success/message envelope. Endpoints with richer
// payloads embed it in their own response structs.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, apiResponse{Success: true, Message: message})
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, apiResponse{Success: false, Message: userMsg})
}

// respondServiceError maps a business error onto a status code and emits it
// as the user-facing message.
func respondServiceError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		respondWithError(w, http.StatusBadRequest, vErr.Message, "", nil)
		return
	}
	respondWithError(w, statusForError(err), err.Error(), "", nil)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrEmailNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCaretakerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrSecurityAnswer):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCaretakerExists):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// decodeBody parses a JSON request body into dst, answering a 400 itself on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "failed to decode request", err)
		return false
	}
	return true
}
