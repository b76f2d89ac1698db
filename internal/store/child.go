package store

import (
	"database/sql"
	"fmt"

	"github.com/rivertonapps/famcoin/internal/model"
)

type ChildStore struct {
	db *sql.DB
}

func NewChildStore(db *sql.DB) *ChildStore {
	return &ChildStore{db: db}
}

func scanChild(scanner interface{ Scan(...any) error }) (*model.Child, error) {
	var c model.Child
	err := scanner.Scan(&c.ID, &c.ParentID, &c.Name, &c.AvatarEmoji, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const childCols = `id, parent_id, name, avatar_emoji, sort_order, created_at, updated_at`

func (s *ChildStore) Create(name, avatarEmoji string) (*model.Child, error) {
	result, err := s.db.Exec(
		`INSERT INTO children (name, avatar_emoji) VALUES (?, ?)`,
		name, avatarEmoji,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChildStore) GetByID(id int64) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

func (s *ChildStore) List() ([]model.Child, error) {
	rows, err := s.db.Query(`SELECT ` + childCols + ` FROM children ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (s *ChildStore) Update(id int64, name, avatarEmoji string, sortOrder int) (*model.Child, error) {
	_, err := s.db.Exec(
		`UPDATE children SET name = ?, avatar_emoji = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, avatarEmoji, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChildStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}
