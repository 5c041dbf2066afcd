// Package store keeps the client's local state: the stored identity that
// gates connecting, and the session history database.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const identityFile = "identity.json"

// Identity is the locally stored user and paired-device identity.
type Identity struct {
	UserUUID   string `json:"user_uuid"`
	DeviceUUID string `json:"device_uuid,omitempty"`
}

// IdentityStore persists the Identity as a JSON file under the data dir.
// An absent or empty file means no identity is stored.
type IdentityStore struct {
	path string
	mu   sync.Mutex
}

func NewIdentityStore(dir string) *IdentityStore {
	return &IdentityStore{path: filepath.Join(dir, identityFile)}
}

// Load reads the stored identity. Returns (nil, nil) when none is stored.
func (s *IdentityStore) Load() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *IdentityStore) load() (*Identity, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	if id.UserUUID == "" {
		return nil, nil
	}
	return &id, nil
}

// Save writes the identity, creating the data dir if needed.
func (s *IdentityStore) Save(id *Identity) error {
	if id == nil || id.UserUUID == "" {
		return errors.New("identity must carry a user uuid")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

// Clear removes the stored identity. Clearing an absent identity is fine.
func (s *IdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// UserUUID reports the stored user identity, if any.
func (s *IdentityStore) UserUUID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.load()
	if err != nil || id == nil {
		return "", false
	}
	return id.UserUUID, true
}

// DeviceUUID reports the paired device identity, if any.
func (s *IdentityStore) DeviceUUID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.load()
	if err != nil || id == nil || id.DeviceUUID == "" {
		return "", false
	}
	return id.DeviceUUID, true
}
