package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// DraftStore persists in-progress wizard drafts as JSON payloads so a session
// survives a restart. Drafts are keyed by ULID so listings sort by creation.
type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

// NewDraftID mints a draft session id.
func NewDraftID() string {
	return ulid.Make().String()
}

func (s *DraftStore) Save(id string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO wizard_drafts (id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		id, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", id, err)
	}
	return nil
}

// Load returns the draft payload, or nil when no such draft exists.
func (s *DraftStore) Load(id string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM wizard_drafts WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	return []byte(payload), nil
}

func (s *DraftStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM wizard_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}

// DeleteStale removes drafts untouched since the cutoff.
func (s *DraftStore) DeleteStale(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM wizard_drafts WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	return result.RowsAffected()
}
