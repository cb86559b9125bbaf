package model

import "time"

// User is an account record in the `users` table. PasswordHash holds the
// bcrypt digest; the plaintext is never persisted. Email is unique and kept
// exactly as submitted (no lowercasing or trimming).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
