package domain

import "time"

// Note is a text note owned by exactly one user. Every read and mutation is
// scoped to the owner; a note never leaks across accounts.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
