//go:build !windows

package frpc

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frpc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func collect(sub Subscription, timeout time.Duration, until func([]LogEvent) bool) []LogEvent {
	var got []LogEvent
	deadline := time.After(timeout)
	for !until(got) {
		select {
		case ev := <-sub.Events():
			got = append(got, ev)
		case <-deadline:
			return got
		}
	}
	return got
}

func hasMsg(events []LogEvent, substr string) bool {
	for _, ev := range events {
		if strings.Contains(ev.Msg, substr) {
			return true
		}
	}
	return false
}

func TestProcessLauncherStreamsOutput(t *testing.T) {
	script := writeScript(t, `cat "$2"
echo "login to server success"
echo "boom" >&2
exec sleep 30
`)
	l := NewProcessLauncher(script, t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	sub := l.Subscribe()
	defer sub.Close()

	require.NoError(t, l.Start("[common]\nserver_addr = 1.2.3.4\n"))
	assert.True(t, l.Running())
	assert.ErrorIs(t, l.Start("again"), ErrAlreadyRunning)

	events := collect(sub, 5*time.Second, func(got []LogEvent) bool {
		return hasMsg(got, "login to server success") && hasMsg(got, "boom")
	})
	assert.True(t, hasMsg(events, "server_addr = 1.2.3.4"), "config file is passed with -c")
	for _, ev := range events {
		if ev.Msg == "boom" {
			assert.Equal(t, LevelError, ev.Level)
		} else {
			assert.Equal(t, LevelInfo, ev.Level)
		}
	}

	b, err := os.ReadFile(l.ConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(b), "server_addr")

	require.NoError(t, l.Stop())
	assert.False(t, l.Running())
	require.NoError(t, l.Stop())

	late := collect(sub, 300*time.Millisecond, func(got []LogEvent) bool { return hasMsg(got, exitMarker) })
	assert.False(t, hasMsg(late, exitMarker), "requested stop is not reported as a crash")
}

func TestProcessLauncherReportsUnexpectedExit(t *testing.T) {
	script := writeScript(t, "echo starting\nexit 3\n")
	l := NewProcessLauncher(script, t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	sub := l.Subscribe()
	defer sub.Close()

	require.NoError(t, l.Start(""))
	events := collect(sub, 5*time.Second, func(got []LogEvent) bool { return hasMsg(got, exitMarker) })
	require.True(t, hasMsg(events, exitMarker))
	assert.True(t, hasMsg(events, "exit status 3"))
	assert.Eventually(t, func() bool { return !l.Running() }, time.Second, 10*time.Millisecond)
}

func TestProcessLauncherMissingBinary(t *testing.T) {
	l := NewProcessLauncher(filepath.Join(t.TempDir(), "nope"), t.TempDir(), nil)
	err := l.Start("")
	require.Error(t, err)
	assert.Contains(t, startErrorMessage(err), "frpc executable not found")
	assert.False(t, l.Running())
}
