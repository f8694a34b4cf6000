package user

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of u with the password hash cleared.
func (u *User) Public() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// Patch lists the columns an update may change. Nil fields are left alone.
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}
