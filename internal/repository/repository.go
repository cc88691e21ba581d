package repository

import (
	"context"

	"github.com/jorgellalle30-glitch/mi-api/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// NoteRepository persists notes. Update and delete take the owner id so the
// ownership check happens inside the same statement as the mutation.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *domain.Note) error
	ListNotesByUser(ctx context.Context, userID int64) ([]domain.Note, error)
	UpdateNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, noteID, userID int64) error
}
