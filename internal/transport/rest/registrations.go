package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/entry"
	"github.com/jmkivinen/trialreg/internal/transport/middleware"
	"github.com/jmkivinen/trialreg/pkg/ctxutil"
)

// entryService is the slice of the entry service the handler needs.
type entryService interface {
	UpdateGroups(ctx context.Context, eventID string, user domain.User, changes []domain.GroupChangeRequest) (*entry.UpdateResult, error)
	ListRegistrations(ctx context.Context, eventID string, user domain.User) ([]*domain.Registration, error)
	SendMessages(ctx context.Context, user domain.User, in entry.SendMessagesInput) (domain.DispatchResult, error)
	AuditTrail(ctx context.Context, key domain.RegistrationKey) ([]domain.AuditEntry, error)
}

// RegistrationHandler serves the event office endpoints: group placement,
// registration listings, message sending and per-registration audit trails.
type RegistrationHandler struct {
	svc entryService
	log *slog.Logger
}

// NewRegistrationHandler creates a RegistrationHandler.
func NewRegistrationHandler(svc entryService, log *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		svc: svc,
		log: log.With("handler", "registrations"),
	}
}

// PutGroups handles PUT /admin/events/{eventId}/registrations/groups.
func (h *RegistrationHandler) PutGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventId")

	var changes []domain.GroupChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeDomainError(w, domain.NewValidationError("groups", "invalid group change list"))
		return
	}

	result, err := h.svc.UpdateGroups(r.Context(), eventID, user, changes)
	if err != nil {
		h.log.Error("update groups failed", "event_id", eventID, "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// List handles GET /admin/events/{eventId}/registrations.
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventId")

	items, err := h.svc.ListRegistrations(r.Context(), eventID, user)
	if err != nil {
		h.log.Error("list registrations failed", "event_id", eventID, "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// sendMessagesRequest is the request body for POST /admin/events/{eventId}/messages.
type sendMessagesRequest struct {
	Template        domain.TemplateID `json:"template"`
	RegistrationIDs []string          `json:"registrationIds"`
	Text            string            `json:"text,omitempty"`
}

// SendMessages handles POST /admin/events/{eventId}/messages.
func (h *RegistrationHandler) SendMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventId")

	var req sendMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validTemplate(req.Template) {
		writeError(w, http.StatusBadRequest, "unknown template")
		return
	}

	result, err := h.svc.SendMessages(r.Context(), user, entry.SendMessagesInput{
		EventID:         eventID,
		Template:        req.Template,
		RegistrationIDs: req.RegistrationIDs,
		Text:            req.Text,
	})
	if err != nil {
		h.log.Error("send messages failed", "event_id", eventID, "template", req.Template, "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AuditTrail handles GET /admin/events/{eventId}/registrations/{id}/audit.
func (h *RegistrationHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	key := domain.RegistrationKey{
		EventID: r.PathValue("eventId"),
		ID:      r.PathValue("id"),
	}

	items, err := h.svc.AuditTrail(r.Context(), key)
	if err != nil {
		h.log.Error("audit trail failed", "key", key.String(), "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// requireUser rejects anonymous requests with 401 and non-admin users with
// 403, and returns the acting user.
func requireUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user, ok := ctxutil.UserFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.User{}, false
	}
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeDomainError(w, err)
		return domain.User{}, false
	}
	return user, true
}

func validTemplate(id domain.TemplateID) bool {
	switch id {
	case domain.TemplatePicked, domain.TemplateInvitation, domain.TemplateReserve, domain.TemplateRegistration:
		return true
	}
	return false
}
