package domain

import "github.com/google/uuid"

// User is the acting organizer resolved by the authorization layer.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Admin bool      `json:"admin,omitempty"`
}
