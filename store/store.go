// Package store mirrors the backend session identifier to durable local
// storage so a conversation is resumed across client restarts.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// envelope is the v1 wire format for the persisted session identifier.
type envelope struct {
	Version   int       `json:"version"`
	SessionID string    `json:"routai_session_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// DefaultPath returns the session mirror location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	return filepath.Join(dir, "routai", "session.json"), nil
}

// Load reads the mirrored session identifier. A missing file, unreadable
// envelope, or unknown version yields an empty identifier, never an error:
// the client then creates a fresh session.
func Load(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	if env.Version != 1 {
		return ""
	}
	return env.SessionID
}

// Save writes the session identifier, creating parent directories as needed.
// The write is staged through a temp file so a crash never truncates the
// mirror.
func Save(path, sessionID string) error {
	data, err := json.MarshalIndent(envelope{
		Version:   1,
		SessionID: sessionID,
		SavedAt:   time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("store: create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: rename temp file: %w", err)
	}
	return nil
}
