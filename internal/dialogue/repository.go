package dialogue

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository holds at most one active session per conversation key.
type Repository interface {
	// Get returns the session for key and whether one exists.
	Get(ctx context.Context, key string) (Session, bool, error)
	// Save stores s under s.Key, replacing any previous session.
	Save(ctx context.Context, s Session) error
	// Delete discards the session for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]Session)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) (Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	return s, ok, nil
}

func (r *MemoryRepository) Save(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Key] = s
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
	return nil
}

// SQLRepository persists sessions as msgpack blobs so an unfinished dialogue
// survives a restart.
type SQLRepository struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLRepository returns a repository over the dialogue_sessions table.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

func (r *SQLRepository) Get(ctx context.Context, key string) (Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var blob []byte
	err := r.db.QueryRowContext(ctx, "SELECT state FROM dialogue_sessions WHERE session_key = ?", key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, &apperrors.PersistenceError{Op: "get session", Err: err}
	}

	var s Session
	if err := msgpack.Unmarshal(blob, &s); err != nil {
		// A blob we cannot decode is dropped so the user can start over.
		log.Warn("Discarding undecodable dialogue session", "key", key, "error", err)
		return Session{}, false, nil
	}
	return s, true, nil
}

func (r *SQLRepository) Save(ctx context.Context, s Session) error {
	blob, err := msgpack.Marshal(s)
	if err != nil {
		return &apperrors.PersistenceError{Op: "encode session", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dialogue_sessions (session_key, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		s.Key, blob, r.now().Unix())
	if err != nil {
		return &apperrors.PersistenceError{Op: "save session", Err: err}
	}
	log.Debug("Saved dialogue session", "key", s.Key, "id", s.ID, "step", s.Step)
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, "DELETE FROM dialogue_sessions WHERE session_key = ?", key); err != nil {
		return &apperrors.PersistenceError{Op: "delete session", Err: err}
	}
	return nil
}
