package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jorgellalle30-glitch/mi-api/internal/domain"
	"github.com/jorgellalle30-glitch/mi-api/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository = (*Repository)(nil)
	_ repository.NoteRepository = (*Repository)(nil)
)

// CreateUser inserts a user and fills in the assigned id.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3) RETURNING id`
	row := r.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.CreatedAt)
	return row.Scan(&user.ID)
}

// GetUserByUsername fetches a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	row := r.pool.QueryRow(ctx, query, username)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateNote inserts a note owned by note.UserID and fills in the assigned id.
func (r *Repository) CreateNote(ctx context.Context, note *domain.Note) error {
	const query = `INSERT INTO notes (title, content, user_id, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	row := r.pool.QueryRow(ctx, query, note.Title, note.Content, note.UserID, note.CreatedAt)
	return row.Scan(&note.ID)
}

// ListNotesByUser returns the notes owned by userID in insertion order.
func (r *Repository) ListNotesByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	const query = `SELECT id, title, content, user_id, created_at
		FROM notes WHERE user_id = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.UserID, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites title and content of the note matching both id and
// owner. The ownership predicate lives in the statement itself so a foreign
// note and a missing note are the same zero-row outcome.
func (r *Repository) UpdateNote(ctx context.Context, note *domain.Note) error {
	const query = `UPDATE notes SET title = $1, content = $2
		WHERE id = $3 AND user_id = $4
		RETURNING created_at`
	row := r.pool.QueryRow(ctx, query, note.Title, note.Content, note.ID, note.UserID)
	if err := row.Scan(&note.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteNote removes the note matching both id and owner.
func (r *Repository) DeleteNote(ctx context.Context, noteID, userID int64) error {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, noteID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
