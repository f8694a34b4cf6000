package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the persisted row of the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Name         string    `bun:"name,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Task is the persisted row of the tasks table.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	Description *string    `bun:"description"`
	Status      string     `bun:"status,notnull"`
	Priority    string     `bun:"priority,notnull"`
	DueDate     *time.Time `bun:"due_date"`
	UserID      int64      `bun:"user_id,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`
}
