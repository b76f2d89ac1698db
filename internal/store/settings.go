package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const (
	SettingConversionRate  = "famcoin_conversion_rate"
	SettingRemainderPolicy = "remainder_policy"
	SettingCurrencyCode    = "default_currency_code"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// ConversionRate returns the FAMCOIN-per-currency-unit rate. A malformed or
// non-positive stored value falls back to the seed default of 10.
func (s *SettingsStore) ConversionRate() (float64, error) {
	val, err := s.Get(SettingConversionRate)
	if err != nil {
		return 0, err
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil || rate <= 0 {
		return 10, nil
	}
	return rate, nil
}

// RemainderPolicy returns the raw policy value; allocation.ParsePolicy maps
// it onto a known policy.
func (s *SettingsStore) RemainderPolicy() (string, error) {
	return s.Get(SettingRemainderPolicy)
}
