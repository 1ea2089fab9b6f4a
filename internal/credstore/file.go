package credstore

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	accessFile  = "access.tk"
	refreshFile = "refresh.tk"
	keyFile     = "store.key"
)

// FileStore keeps credentials under the user config dir, one file per kind,
// sealed at rest with a locally generated key (see seal.go).
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore returns a store rooted at $XDG_CONFIG_HOME/notenest
// (~/.config/notenest otherwise). A nil logger disables logging.
func NewFileStore(logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: cfgDir(), log: logger}
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "notenest")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "notenest")
}

func (s *FileStore) path(kind Kind) string {
	if kind == Refresh {
		return filepath.Join(s.dir, refreshFile)
	}
	return filepath.Join(s.dir, accessFile)
}

// Get returns the stored token of the given kind. Any read or unseal
// failure reports the credential as absent.
func (s *FileStore) Get(kind Kind) (string, bool) {
	sealed, err := os.ReadFile(s.path(kind))
	if err != nil {
		return "", false
	}
	key, err := s.storeKey(false)
	if err != nil {
		s.log.Debug("credstore: sealing key unavailable", zap.Error(err))
		return "", false
	}
	tok, err := unseal(key, sealed)
	if err != nil {
		s.log.Debug("credstore: unseal failed",
			zap.String("kind", kind.String()), zap.Error(err))
		return "", false
	}
	return string(tok), true
}

// Set persists the token, silently dropping it when storage is unavailable.
func (s *FileStore) Set(kind Kind, token string) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.log.Debug("credstore: mkdir failed", zap.Error(err))
		return
	}
	key, err := s.storeKey(true)
	if err != nil {
		s.log.Debug("credstore: sealing key unavailable", zap.Error(err))
		return
	}
	sealed, err := seal(key, []byte(token))
	if err != nil {
		s.log.Debug("credstore: seal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path(kind), sealed, 0o600); err != nil {
		s.log.Debug("credstore: write failed",
			zap.String("kind", kind.String()), zap.Error(err))
	}
}

// Remove deletes the stored token; removing an absent credential is a no-op.
func (s *FileStore) Remove(kind Kind) {
	_ = os.Remove(s.path(kind))
}

// storeKey loads the local sealing key, generating one on first use when
// create is set.
func (s *FileStore) storeKey(create bool) ([]byte, error) {
	p := filepath.Join(s.dir, keyFile)
	key, err := os.ReadFile(p)
	if err == nil && len(key) == keyLen {
		return key, nil
	}
	if !create {
		if err == nil {
			err = errors.New("sealing key has wrong length")
		}
		return nil, err
	}
	key, err = randBytes(keyLen)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}
