// Package file implements a file-backed credential store: the durable
// localStorage analog for CLI processes. One JSON document carries both
// entries of the storage key surface — the bare bearer token under
// "auth_token" and the rehydration snapshot under "auth-storage".
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

const fileMode = 0o600

// Store persists the credential in a single JSON file, written atomically
// via a temp file and rename. Durability survives process restart but not
// removal of the file by the user or host.
type Store struct {
	path string
}

// New returns a Store writing to path. Parent directories are created on
// first Save.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional credential location under the user
// config directory.
func DefaultPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appName, "session.json"), nil
}

// document mirrors the browser storage layout: two keys, one file.
type document struct {
	AuthToken   string    `json:"auth_token"`
	AuthStorage *envelope `json:"auth-storage,omitempty"`
}

// envelope reproduces the persisted snapshot format:
// {"state":{"user":…,"token":…,"isAuthenticated":…},"version":0}.
type envelope struct {
	State   snapshot `json:"state"`
	Version int      `json:"version"`
}

type snapshot struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Save writes token and user atomically: both entries land in one rename.
func (s *Store) Save(_ context.Context, token string, user *domain.User) error {
	doc := document{
		AuthToken: token,
		AuthStorage: &envelope{
			State: snapshot{User: user, Token: token, IsAuthenticated: token != ""},
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write credential: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close credential file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

// Load returns the persisted credential, or (nil, nil) when the file is
// missing or holds no token. Absence is a valid outcome, never an error.
func (s *Store) Load(_ context.Context) (*domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	if doc.AuthToken == "" {
		return nil, nil
	}

	cred := &domain.Credential{Token: doc.AuthToken}
	if doc.AuthStorage != nil {
		cred.User = doc.AuthStorage.State.User
	}
	return cred, nil
}

// Clear removes the credential file. Clearing an empty store is a no-op.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}
