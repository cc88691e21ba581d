package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jorgellalle30-glitch/mi-api/internal/domain"
	"github.com/jorgellalle30-glitch/mi-api/internal/repository"
	"github.com/jorgellalle30-glitch/mi-api/internal/service/auth"
	"github.com/jorgellalle30-glitch/mi-api/internal/service/note"
	"github.com/jorgellalle30-glitch/mi-api/pkg/config"
	"github.com/jorgellalle30-glitch/mi-api/pkg/crypto"
	jwtpkg "github.com/jorgellalle30-glitch/mi-api/pkg/jwt"
)

const testSecret = "router-test-secret"

// memoryRepo backs router tests with an in-process store implementing both
// repository interfaces.
type memoryRepo struct {
	users      map[string]*domain.User
	notes      map[int64]domain.Note
	nextUserID int64
	nextNoteID int64
	fail       error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*domain.User), notes: make(map[int64]domain.Note)}
}

func (m *memoryRepo) CreateUser(ctx context.Context, user *domain.User) error {
	if m.fail != nil {
		return m.fail
	}
	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.Username] = user
	return nil
}

func (m *memoryRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	if user, ok := m.users[username]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRepo) CreateNote(ctx context.Context, n *domain.Note) error {
	if m.fail != nil {
		return m.fail
	}
	m.nextNoteID++
	n.ID = m.nextNoteID
	m.notes[n.ID] = *n
	return nil
}

func (m *memoryRepo) ListNotesByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]domain.Note, 0)
	for id := int64(1); id <= m.nextNoteID; id++ {
		if n, ok := m.notes[id]; ok && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateNote(ctx context.Context, n *domain.Note) error {
	if m.fail != nil {
		return m.fail
	}
	existing, ok := m.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return repository.ErrNotFound
	}
	existing.Title = n.Title
	existing.Content = n.Content
	m.notes[n.ID] = existing
	n.CreatedAt = existing.CreatedAt
	return nil
}

func (m *memoryRepo) DeleteNote(ctx context.Context, noteID, userID int64) error {
	if m.fail != nil {
		return m.fail
	}
	existing, ok := m.notes[noteID]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.notes, noteID)
	return nil
}

func newTestRouter(t *testing.T, repo *memoryRepo) *Router {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{JWTSecret: testSecret, TokenTTL: time.Hour}
	return NewRouter(log, auth.New(repo, log, cfg), note.New(repo, log), nil)
}

func addUser(t *testing.T, repo *memoryRepo, username, password string) *domain.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{Username: username, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func doJSON(t *testing.T, router *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, router *Router, username, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("login response missing token")
	}
	return payload.Token
}

func TestNoteLifecycleScenario(t *testing.T) {
	repo := newMemoryRepo()
	addUser(t, repo, "alice", "alicepw")
	addUser(t, repo, "bob", "bobpw")
	router := newTestRouter(t, repo)

	aliceToken := loginToken(t, router, "alice", "alicepw")
	bobToken := loginToken(t, router, "bob", "bobpw")

	rec := doJSON(t, router, http.MethodPost, "/notes", "Bearer "+aliceToken, map[string]string{
		"title": "a", "content": "b",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created note: %v", err)
	}
	if created.ID != 1 || created.Title != "a" || created.Content != "b" {
		t.Fatalf("unexpected created note: %+v", created)
	}

	rec = doJSON(t, router, http.MethodGet, "/notes", "Bearer "+aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d", rec.Code)
	}
	var listed []domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != 1 {
		t.Fatalf("unexpected list: %+v", listed)
	}

	// Bob's token must see alice's note as nonexistent, not as forbidden.
	rec = doJSON(t, router, http.MethodPut, "/notes/1", "Bearer "+bobToken, map[string]string{
		"title": "hax", "content": "hax",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user update returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/notes/1", "Bearer "+aliceToken, map[string]string{
		"title": "a2", "content": "b2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated note: %v", err)
	}
	if updated.Title != "a2" || updated.Content != "b2" {
		t.Fatalf("unexpected updated note: %+v", updated)
	}

	rec = doJSON(t, router, http.MethodDelete, "/notes/1", "Bearer "+aliceToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/notes/1", "Bearer "+aliceToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/notes", "Bearer "+aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("final list returned %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode final list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", listed)
	}
}

func TestLoginRejections(t *testing.T) {
	repo := newMemoryRepo()
	addUser(t, repo, "alice", "alicepw")
	router := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{"username": "alice"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password returned %d, want 400", rec.Code)
	}

	// Unknown user and wrong password must be indistinguishable.
	recUnknown := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "nobody", "password": "pw",
	})
	recWrong := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if recUnknown.Code != http.StatusBadRequest || recWrong.Code != http.StatusBadRequest {
		t.Fatalf("got %d and %d, want 400 for both", recUnknown.Code, recWrong.Code)
	}
	if recUnknown.Body.String() != recWrong.Body.String() {
		t.Fatalf("rejection bodies differ: %q vs %q", recUnknown.Body.String(), recWrong.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/login", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /login returned %d, want 405", rec.Code)
	}
}

func TestAuthGuard(t *testing.T) {
	repo := newMemoryRepo()
	addUser(t, repo, "alice", "alicepw")
	router := newTestRouter(t, repo)
	token := loginToken(t, router, "alice", "alicepw")

	rec := doJSON(t, router, http.MethodGet, "/notes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header returned %d, want 401", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/notes", "Bearer not.a.token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token returned %d, want 401", rec.Code)
	}

	expired, err := jwtpkg.Generate(1, "alice", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}
	rec = doJSON(t, router, http.MethodGet, "/notes", "Bearer "+expired, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token returned %d, want 401", rec.Code)
	}

	// The header is accepted with or without the Bearer prefix.
	rec = doJSON(t, router, http.MethodGet, "/notes", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("raw token returned %d, want 200", rec.Code)
	}
}

func TestNoteValidationAndPathErrors(t *testing.T) {
	repo := newMemoryRepo()
	addUser(t, repo, "alice", "alicepw")
	router := newTestRouter(t, repo)
	token := "Bearer " + loginToken(t, router, "alice", "alicepw")

	rec := doJSON(t, router, http.MethodPost, "/notes", token, map[string]string{"title": "", "content": "b"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty title returned %d, want 400", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/notes", token, map[string]string{"title": "a", "content": " "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank content returned %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", token)
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON returned %d, want 400", raw.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/notes/abc", token, map[string]string{"title": "a", "content": "b"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPatch, "/notes/1", token, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PATCH returned %d, want 405", rec.Code)
	}
}

func TestStoreFaultsReturnGeneric500(t *testing.T) {
	repo := newMemoryRepo()
	addUser(t, repo, "alice", "alicepw")
	router := newTestRouter(t, repo)
	token := "Bearer " + loginToken(t, router, "alice", "alicepw")

	repo.fail = errors.New("pgx: connection reset by peer 10.1.2.3:5432")

	rec := doJSON(t, router, http.MethodGet, "/notes", token, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("list with store fault returned %d, want 500", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("pgx")) {
		t.Fatalf("driver detail leaked to client: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "alicepw",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("login with store fault returned %d, want 500", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("pgx")) {
		t.Fatalf("driver detail leaked to client: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	repo := newMemoryRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{JWTSecret: testSecret, TokenTTL: time.Hour}

	healthy := NewRouter(log, auth.New(repo, log, cfg), note.New(repo, log), func(context.Context) error { return nil })
	rec := doJSON(t, healthy, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz returned %d, want 200", rec.Code)
	}

	down := NewRouter(log, auth.New(repo, log, cfg), note.New(repo, log), func(context.Context) error {
		return errors.New("dial tcp: connection refused")
	})
	rec = doJSON(t, down, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded healthz returned %d, want 503", rec.Code)
	}
}
