package handlers

import (
	"net/http"

	"carevoice/internal/models"
	"carevoice/internal/service"
)

// AccountHandler serves the authenticated account endpoints: profile,
// preferences, devices, medicines and caretakers.
type AccountHandler struct {
	accounts *service.AccountService
	invites  *service.InviteService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *service.AccountService, invites *service.InviteService) *AccountHandler {
	return &AccountHandler{accounts: accounts, invites: invites}
}

// Profile handles GET /api/profile.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Profile(UserIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// SetTheme handles POST /api/theme.
func (h *AccountHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.accounts.SetTheme(UserIDFromContext(r.Context()), req.Theme); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Theme updated")
}

// Medicines handles GET /api/medicines. Caretakers may read another
// account's list via ?user_id=.
func (h *AccountHandler) Medicines(w http.ResponseWriter, r *http.Request) {
	viewerID := UserIDFromContext(r.Context())
	targetID := r.URL.Query().Get("user_id")
	if targetID == "" {
		targetID = viewerID
	}
	if !h.accounts.CanAccess(viewerID, targetID) {
		respondServiceError(w, service.ErrNotAuthorized)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]models.Medicine{
		"medicines": h.accounts.Medicines(targetID),
	})
}

// SetMedicines handles POST /api/medicines.
func (h *AccountHandler) SetMedicines(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string            `json:"user_id"`
		Medicines []models.Medicine `json:"medicines"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	viewerID := UserIDFromContext(r.Context())
	targetID := req.UserID
	if targetID == "" {
		targetID = viewerID
	}
	if !h.accounts.CanAccess(viewerID, targetID) {
		respondServiceError(w, service.ErrNotAuthorized)
		return
	}

	if err := h.accounts.SetMedicines(targetID, req.Medicines); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Medicines updated")
}

// RegisterDevice handles POST /api/devices.
func (h *AccountHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeviceID string `json:"device_id"`
		Name     string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DeviceID == "" {
		respondWithError(w, http.StatusBadRequest, "device_id is required", "", nil)
		return
	}

	msg, err := h.accounts.RegisterDevice(UserIDFromContext(r.Context()), req.DeviceID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, msg)
}

// Devices handles GET /api/devices.
func (h *AccountHandler) Devices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]models.DeviceInfo{
		"devices": h.accounts.Devices(UserIDFromContext(r.Context())),
	})
}

// AddCaretaker handles POST /api/caretakers.
func (h *AccountHandler) AddCaretaker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.accounts.AddCaretaker(UserIDFromContext(r.Context()), req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, msg)
}

// Accounts handles GET /api/accounts, listing the account IDs the caller may
// view.
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"accounts": h.accounts.AccessibleAccounts(UserIDFromContext(r.Context())),
	})
}

// Invite handles POST /api/invitations.
func (h *AccountHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	inv, err := h.invites.Invite(r.Context(), UserIDFromContext(r.Context()), req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		apiResponse
		Code      string `json:"code"`
		ExpiresAt string `json:"expires_at"`
	}{
		apiResponse: apiResponse{Success: true, Message: "Invitation sent"},
		Code:        inv.Code,
		ExpiresAt:   inv.ExpiresAt,
	})
}

// AcceptInvitation handles POST /api/invitations/accept.
func (h *AccountHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.invites.Accept(req.Code, UserIDFromContext(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Invitation accepted")
}
