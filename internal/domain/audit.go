package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one line of a registration's change history.
type AuditEntry struct {
	ID        uuid.UUID `json:"id"`
	AuditKey  string    `json:"auditKey"`
	Message   string    `json:"message"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegistrationAuditKey builds the audit key "<eventId>:<registrationId>".
func RegistrationAuditKey(key RegistrationKey) string {
	return key.String()
}
