package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Status       string    `json:"status"`
	PostIDs      []string  `json:"posts"`
	CreatedAt    time.Time `json:"createdAt"`
}
