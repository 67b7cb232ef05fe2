package webdav

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/studio-b12/gowebdav"

	"frpcpanel/internal/config"
)

var ErrIncomplete = errors.New("webdav settings are incomplete")

func newClient(s config.WebDAVSettings) (*gowebdav.Client, error) {
	if s.URL == "" || s.Username == "" || s.Password == "" {
		return nil, ErrIncomplete
	}
	return gowebdav.NewClient(s.URL, s.Username, s.Password), nil
}

// Push uploads the saved config document as-is.
func Push(s config.WebDAVSettings, store *config.Store) (string, error) {
	client, err := newClient(s)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("nothing to back up: %s does not exist", store.Path())
		}
		return "", err
	}

	remote := remotePath(s.RemotePath)
	if err := client.MkdirAll(path.Dir(remote), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", path.Dir(remote), err)
	}
	if err := client.Write(remote, data, 0o600); err != nil {
		return "", fmt.Errorf("upload %s: %w", remote, err)
	}
	return remote, nil
}

// Pull downloads the remote document, checks that it parses and replaces
// the local one with it.
func Pull(s config.WebDAVSettings, store *config.Store) (*config.AppConfig, error) {
	client, err := newClient(s)
	if err != nil {
		return nil, err
	}

	remote := remotePath(s.RemotePath)
	data, err := client.Read(remote)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", remote, err)
	}
	cfg, err := config.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("remote document %s: %w", remote, err)
	}
	if err := store.WriteRaw(data); err != nil {
		return nil, err
	}
	return cfg, nil
}
