package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const documentName = "config.json"

// Store persists the whole AppConfig as a single JSON document.
type Store struct {
	path string
}

func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, documentName)}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns DefaultConfig when nothing has been saved yet.
func (s *Store) Load() (*AppConfig, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return cfg, nil
}

func (s *Store) Save(cfg *AppConfig) error {
	b, err := Encode(cfg)
	if err != nil {
		return err
	}
	return s.WriteRaw(b)
}

// WriteRaw replaces the document with already encoded bytes. The bytes go
// to a temp file in the same directory which is renamed over the document,
// so a crash mid-write leaves the previous document intact.
func (s *Store) WriteRaw(b []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+documentName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func Encode(cfg *AppConfig) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func Decode(b []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if cfg.Proxies == nil {
		cfg.Proxies = []ProxyItem{}
	}
	return &cfg, nil
}
