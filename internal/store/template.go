package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rivertonapps/famcoin/internal/model"
)

type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.TaskTemplate, error) {
	var t model.TaskTemplate
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.PhotoProofRequired,
		&t.EffortScore, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const templateCols = `id, name, description, photo_proof_required, effort_score, active, created_at, updated_at`

func (s *TemplateStore) Create(name, description string, photoProofRequired bool, effortScore int) (*model.TaskTemplate, error) {
	result, err := s.db.Exec(
		`INSERT INTO task_templates (name, description, photo_proof_required, effort_score) VALUES (?, ?, ?, ?)`,
		name, description, photoProofRequired, effortScore,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) GetByID(id int64) (*model.TaskTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM task_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// GetByIDs fetches templates for the given ids. Missing ids are simply absent
// from the result; callers that need all of them present check the length.
func (s *TemplateStore) GetByIDs(ids []int64) (map[int64]model.TaskTemplate, error) {
	templates := make(map[int64]model.TaskTemplate)
	if len(ids) == 0 {
		return templates, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(
		`SELECT `+templateCols+` FROM task_templates WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("get templates by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates[t.ID] = *t
	}
	return templates, rows.Err()
}

func (s *TemplateStore) List() ([]model.TaskTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateCols + ` FROM task_templates ORDER BY active DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) Update(id int64, name, description string, photoProofRequired bool, effortScore int, active bool) (*model.TaskTemplate, error) {
	_, err := s.db.Exec(
		`UPDATE task_templates SET name = ?, description = ?, photo_proof_required = ?, effort_score = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, photoProofRequired, effortScore, active, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
