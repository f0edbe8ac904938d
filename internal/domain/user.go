package domain

import "time"

type User struct {
	ID           uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfilePatch updates name and/or email; absent fields stay untouched.
type ProfilePatch struct {
	Name  Optional[string]
	Email Optional[string]
}
