package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

const sessionFile = "session.json"

// sessionPath resolves the session file under the Lysn state directory.
func sessionPath() (string, error) {
	dir, err := shared.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// LoadSession restores a persisted session from disk, installing it on the
// client. A missing file is not an error: the client stays unauthenticated.
func (c *Client) LoadSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.Token != "" {
		c.SetSession(&session)
	}

	return nil
}

// SaveSession persists the current session so CLI invocations stay
// authenticated. With no session held, the file is removed instead.
func (c *Client) SaveSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	session := c.Session()
	if session == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
