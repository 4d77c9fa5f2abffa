package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	identityFile = "identity.json"
)

// Identity is the persisted user identity. The agent keys conversation
// history by user ID, so the same ID must be presented across sessions.
type Identity struct {
	// UserID is a UUID minted on first use and reused forever after.
	UserID string `json:"user_id"`
}

// LoadIdentity loads the identity from a target .partdeck/identity.json.
// Returns nil, nil if no identity exists yet.
// If overrideDir is non-empty, it is used instead of the default ~/.partdeck/ location.
func (m *Manager) LoadIdentity(overrideDir string) (*Identity, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, identityFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	identity := &Identity{}
	if err := json.Unmarshal(data, identity); err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}

	return identity, nil
}

// SaveIdentity persists the identity to a target .partdeck/identity.json.
func (m *Manager) SaveIdentity(identity *Identity, overrideDir string) error {
	if identity == nil {
		return errors.New("cannot save nil identity")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling identity: %w", err)
	}

	path := filepath.Join(dir, identityFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}

	return nil
}

// EnsureIdentity returns the stored identity, minting and persisting a new
// one when none exists.
func (m *Manager) EnsureIdentity(overrideDir string) (*Identity, error) {
	identity, err := m.LoadIdentity(overrideDir)
	if err != nil {
		return nil, err
	}
	if identity != nil && identity.UserID != "" {
		return identity, nil
	}

	identity = &Identity{UserID: uuid.NewString()}
	if err := m.SaveIdentity(identity, overrideDir); err != nil {
		return nil, err
	}

	return identity, nil
}
