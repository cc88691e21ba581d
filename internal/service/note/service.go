package note

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jorgellalle30-glitch/mi-api/internal/domain"
	"github.com/jorgellalle30-glitch/mi-api/internal/repository"
)

// Validation sentinels for client input.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

// ErrStoreUnavailable replaces any store-level fault; the driver error is
// logged here and never surfaces to a client.
var ErrStoreUnavailable = errors.New("store unavailable")

// Service implements ownership-scoped note CRUD. Every operation takes the
// authenticated user's id and pushes it into the repository predicate, so a
// note owned by someone else behaves exactly like one that does not exist.
type Service struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(notes repository.NoteRepository, logger *slog.Logger) Service {
	return Service{notes: notes, logger: logger}
}

// List returns all notes owned by userID in insertion order.
func (s Service) List(ctx context.Context, userID int64) ([]domain.Note, error) {
	notes, err := s.notes.ListNotesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("note list failed", "error", err, "user_id", userID)
		return nil, ErrStoreUnavailable
	}
	return notes, nil
}

// Create inserts a note owned by userID and returns it with the assigned id.
func (s Service) Create(ctx context.Context, userID int64, title, content string) (*domain.Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}
	note := &domain.Note{
		Title:     title,
		Content:   content,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		s.logger.Error("note create failed", "error", err, "user_id", userID)
		return nil, ErrStoreUnavailable
	}
	s.logger.Info("note created", "note_id", note.ID, "user_id", userID)
	return note, nil
}

// Update rewrites title and content of the note matching noteID and userID.
// Returns repository.ErrNotFound when the note is missing or foreign-owned.
func (s Service) Update(ctx context.Context, userID, noteID int64, title, content string) (*domain.Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}
	note := &domain.Note{
		ID:      noteID,
		Title:   title,
		Content: content,
		UserID:  userID,
	}
	if err := s.notes.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("note update failed", "error", err, "note_id", noteID, "user_id", userID)
		return nil, ErrStoreUnavailable
	}
	return note, nil
}

// Delete removes the note matching noteID and userID. Returns
// repository.ErrNotFound when the note is missing or foreign-owned.
func (s Service) Delete(ctx context.Context, userID, noteID int64) error {
	if err := s.notes.DeleteNote(ctx, noteID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("note delete failed", "error", err, "note_id", noteID, "user_id", userID)
		return ErrStoreUnavailable
	}
	s.logger.Info("note deleted", "note_id", noteID, "user_id", userID)
	return nil
}

func validate(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return ErrContentRequired
	}
	return nil
}
