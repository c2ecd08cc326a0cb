package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"carevoice/internal/models"
	"carevoice/internal/phrases"
	"carevoice/internal/service"
)

// RelayHandler serves the trigger and history endpoints.
type RelayHandler struct {
	relay *service.RelayService
}

// NewRelayHandler creates a new relay handler
func NewRelayHandler(relay *service.RelayService) *RelayHandler {
	return &RelayHandler{relay: relay}
}

// Trigger handles POST /api/trigger. Anonymous requests are accepted so
// hardware buttons work without credentials; authenticated requests stamp
// the caller onto the event.
func (h *RelayHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Button     string `json:"button"`
		Language   string `json:"language"`
		Source     string `json:"source"`
		CustomText string `json:"custom_text"`
		DeviceID   string `json:"device_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Button == "" && req.CustomText == "" {
		respondWithError(w, http.StatusBadRequest, "button is required", "", nil)
		return
	}
	if req.Language == "" {
		req.Language = phrases.DefaultLanguage
	}

	userID := UserIDFromContext(r.Context())
	if req.Source == "" {
		if userID != "" {
			req.Source = models.SourceUI
		} else {
			req.Source = models.SourceDevice
		}
	}

	evt := h.relay.Trigger(r.Context(), service.TriggerRequest{
		Button:     req.Button,
		Language:   req.Language,
		Source:     req.Source,
		CustomText: req.CustomText,
		DeviceID:   req.DeviceID,
		UserID:     userID,
	})

	respondJSON(w, http.StatusOK, evt)
}

// History handles GET /api/history. Signed-in callers see their accessible
// accounts; anonymous callers see everything, matching the single-household
// deployment model.
func (h *RelayHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	events := h.relay.History(UserIDFromContext(r.Context()), limit)
	respondJSON(w, http.StatusOK, map[string][]models.Event{
		"events": events,
	})
}

// ArchivedHistory handles GET /api/history/archive, serving events that aged
// out of the rolling window. Caretakers may read another account's archive
// via ?user_id=.
func (h *RelayHandler) ArchivedHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	events, err := h.relay.ArchivedHistory(UserIDFromContext(r.Context()), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			respondServiceError(w, err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to read archived history", "archive read failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string][]models.Event{
		"events": events,
	})
}

// limitParam parses the ?limit= query parameter, answering a 400 itself on a
// bad value. Absent means no limit.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer", "", nil)
		return 0, false
	}
	return parsed, true
}

// Buttons handles GET /api/buttons, describing the configured buttons and
// languages for UIs.
func (h *RelayHandler) Buttons(w http.ResponseWriter, r *http.Request) {
	type buttonView struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}

	var buttons []buttonView
	for _, id := range phrases.Buttons() {
		label, _ := phrases.Label(id)
		buttons = append(buttons, buttonView{ID: id, Label: label})
	}

	respondJSON(w, http.StatusOK, struct {
		Buttons   []buttonView `json:"buttons"`
		Languages []string     `json:"languages"`
	}{
		Buttons:   buttons,
		Languages: phrases.Languages,
	})
}
