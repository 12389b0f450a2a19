package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	SettingAccessToken = "auth.access_token"
	SettingTokenType   = "auth.token_type"
	SettingExpiry      = "auth.expiry"
	SettingUser        = "auth.user"
)

func SetSetting(db *sql.DB, key, value string) error {
	return setSetting(db, key, value)
}

func setSetting(q sqlExecutor, key, value string) error {
	key = normalizeName(key)
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	_, err := q.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func GetSetting(db *sql.DB, key string) (string, bool, error) {
	key = normalizeName(key)
	if key == "" {
		return "", false, fmt.Errorf("setting key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func ListSettings(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// DeleteSetting reports whether the key existed.
func DeleteSetting(db *sql.DB, key string) (bool, error) {
	return deleteSetting(db, key)
}

func deleteSetting(q sqlExecutor, key string) (bool, error) {
	res, err := q.Exec(`DELETE FROM app_config WHERE key = ?`, normalizeName(key))
	if err != nil {
		return false, fmt.Errorf("delete setting %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read rows affected: %w", err)
	}
	return n > 0, nil
}

// Session is the remote API login persisted between runs.
type Session struct {
	AccessToken string    `json:"-"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry,omitempty"`
	User        string    `json:"user,omitempty"`
}

// Valid reports whether the token is present and not expired.
func (s Session) Valid() bool {
	return s.OAuthToken().Valid()
}

func (s Session) OAuthToken() *oauth2.Token {
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{AccessToken: s.AccessToken, TokenType: tokenType, Expiry: s.Expiry}
}

func SaveSession(db *sql.DB, s Session) error {
	if strings.TrimSpace(s.AccessToken) == "" {
		return fmt.Errorf("access token is required")
	}
	if s.TokenType == "" {
		s.TokenType = "Bearer"
	}
	expiry := ""
	if !s.Expiry.IsZero() {
		expiry = s.Expiry.UTC().Format(time.RFC3339)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	values := map[string]string{
		SettingAccessToken: strings.TrimSpace(s.AccessToken),
		SettingTokenType:   s.TokenType,
		SettingExpiry:      expiry,
		SettingUser:        s.User,
	}
	for key, value := range values {
		if err := setSetting(tx, key, value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save session tx: %w", err)
	}
	return nil
}

// LoadSession reports false when nobody is logged in.
func LoadSession(db *sql.DB) (Session, bool, error) {
	settings, err := ListSettings(db)
	if err != nil {
		return Session{}, false, err
	}
	token := settings[SettingAccessToken]
	if token == "" {
		return Session{}, false, nil
	}
	s := Session{AccessToken: token, TokenType: settings[SettingTokenType], User: settings[SettingUser]}
	if raw := settings[SettingExpiry]; raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Session{}, false, fmt.Errorf("parse session expiry %q: %w", raw, err)
		}
		s.Expiry = t
	}
	return s, true, nil
}

func ClearSession(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, key := range []string{SettingAccessToken, SettingTokenType, SettingExpiry, SettingUser} {
		if _, err := deleteSetting(tx, key); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear session tx: %w", err)
	}
	return nil
}
