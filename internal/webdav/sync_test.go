package webdav

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"

	"frpcpanel/internal/config"
)

func newServer(t *testing.T) config.WebDAVSettings {
	t.Helper()
	srv := httptest.NewServer(&xwebdav.Handler{
		FileSystem: xwebdav.NewMemFS(),
		LockSystem: xwebdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)
	return config.WebDAVSettings{URL: srv.URL, Username: "u", Password: "p", RemotePath: "backups/panel.json"}
}

func TestRemotePath(t *testing.T) {
	assert.Equal(t, defaultRemotePath, remotePath(""))
	assert.Equal(t, "/a/b.json", remotePath("a/b.json"))
	assert.Equal(t, "/dir/config.json", remotePath("/dir/"))
	assert.Equal(t, "/x.json", remotePath("/a/../x.json"))
}

func TestPushAndPull(t *testing.T) {
	settings := newServer(t)

	src := config.NewStore(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.ServerAddr = "frp.example.com"
	cfg.Proxies = []config.ProxyItem{{ID: "1", Name: "ssh", Type: config.ProxyTCP, LocalIP: "127.0.0.1", LocalPort: "22", RemotePort: config.StringPtr("6000")}}
	require.NoError(t, src.Save(cfg))

	remote, err := Push(settings, src)
	require.NoError(t, err)
	assert.Equal(t, "/backups/panel.json", remote)

	dst := config.NewStore(t.TempDir())
	pulled, err := Pull(settings, dst)
	require.NoError(t, err)
	assert.Equal(t, cfg, pulled)

	loaded, err := dst.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPushWithoutDocument(t *testing.T) {
	settings := newServer(t)
	_, err := Push(settings, config.NewStore(t.TempDir()))
	assert.ErrorContains(t, err, "nothing to back up")
}

func TestIncompleteSettings(t *testing.T) {
	_, err := Push(config.WebDAVSettings{URL: "http://example.invalid"}, config.NewStore(t.TempDir()))
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = Pull(config.WebDAVSettings{}, config.NewStore(t.TempDir()))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestPullMissingRemote(t *testing.T) {
	settings := newServer(t)
	_, err := Pull(settings, config.NewStore(t.TempDir()))
	assert.Error(t, err)
}
