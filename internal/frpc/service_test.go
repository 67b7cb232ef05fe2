package frpc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frpcpanel/internal/config"
	"frpcpanel/internal/validation"
)

type fakeLauncher struct {
	Broadcaster

	mu       sync.Mutex
	starts   []string
	stops    int
	startErr error
	stopGate chan struct{}
}

func (f *fakeLauncher) Start(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts = append(f.starts, text)
	return nil
}

func (f *fakeLauncher) Stop() error {
	f.mu.Lock()
	gate := f.stopGate
	f.stops++
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return nil
}

func (f *fakeLauncher) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.starts), f.stops
}

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeLauncher) {
	t.Helper()
	fl := &fakeLauncher{}
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	svc := NewService(fl, opts...)
	t.Cleanup(svc.Close)
	return svc, fl
}

func validInput() StartInput {
	return StartInput{
		ServerAddr: "frp.example.com",
		ServerPort: "7000",
		Token:      "tok",
		Proxies: []config.ProxyItem{
			{ID: "1", Name: "ssh", Type: config.ProxyTCP, LocalIP: "127.0.0.1", LocalPort: "22", RemotePort: config.StringPtr("6000")},
		},
	}
}

func lastLog(svc *Service) LogEntry {
	logs := svc.Logs()
	if len(logs) == 0 {
		return LogEntry{}
	}
	return logs[len(logs)-1]
}

func TestServiceLogLinesDriveStatus(t *testing.T) {
	svc, _ := newTestService(t)

	seen := []Status{svc.Status()}
	for _, line := range []string{"try to connect to server", "login to server success"} {
		svc.handleEvent(LogEvent{Msg: line, Level: LevelInfo})
		seen = append(seen, svc.Status())
	}
	assert.Equal(t, []Status{StatusStopped, StatusConnecting, StatusRunning}, seen)
	assert.Len(t, svc.Logs(), 2)
}

func TestServiceFatalLineStopsExactlyOnce(t *testing.T) {
	svc, fl := newTestService(t)
	svc.handleEvent(LogEvent{Msg: "login to server success"})
	require.Equal(t, StatusRunning, svc.Status())

	svc.handleEvent(LogEvent{Msg: "[W] [ssh] start error: port already used", Level: LevelError})
	assert.Equal(t, StatusStopped, svc.Status())
	_, stops := fl.counts()
	assert.Equal(t, 1, stops)

	svc.handleEvent(LogEvent{Msg: "[W] [web] start error: port already used", Level: LevelError})
	_, stops = fl.counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, LevelError, lastLog(svc).Level)
}

func TestServiceStartRejectsInvalidInput(t *testing.T) {
	svc, fl := newTestService(t)

	err := svc.Start(StartInput{ServerAddr: "", ServerPort: "7000"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, validation.FieldServerAddr, verr.Errors[0].Field)
	starts, _ := fl.counts()
	assert.Zero(t, starts)
	assert.Equal(t, StatusStopped, svc.Status())

	entry := lastLog(svc)
	assert.Equal(t, "Server address is required", entry.Message)
	assert.Equal(t, LevelError, entry.Level)
}

func TestServiceStartLaunches(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, fl := newTestService(t, WithClock(func() time.Time { return now }))

	require.NoError(t, svc.Start(validInput()))

	starts, stops := fl.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops, "prior instance is stopped first")
	assert.Contains(t, fl.starts[0], "server_addr")
	assert.Contains(t, fl.starts[0], "[ssh]")
	assert.Equal(t, StatusConnecting, svc.Status())
	assert.Equal(t, LogEntry{Message: "--- Service Starting ---", Level: LevelInfo, Time: now}, lastLog(svc))
}

func TestServiceStartExecutableMissing(t *testing.T) {
	svc, fl := newTestService(t)
	fl.startErr = fmt.Errorf("start frpc: %w", exec.ErrNotFound)

	err := svc.Start(validInput())
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Equal(t, StatusStopped, svc.Status())
	assert.Contains(t, lastLog(svc).Message, "frpc executable not found")

	fl.startErr = errors.New("permission denied")
	require.Error(t, svc.Start(validInput()))
	assert.Equal(t, "Start failed: permission denied", lastLog(svc).Message)
}

func TestServiceStopIgnoresLateSuccessLine(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Start(validInput()))
	svc.handleEvent(LogEvent{Msg: "login to server success"})
	require.Equal(t, StatusRunning, svc.Status())

	require.NoError(t, svc.Stop())
	assert.Equal(t, StatusStopped, svc.Status())
	assert.Equal(t, "--- Service Stopped ---", lastLog(svc).Message)

	svc.handleEvent(LogEvent{Msg: "login to server success"})
	assert.Equal(t, StatusStopped, svc.Status())

	require.NoError(t, svc.Start(validInput()))
	svc.handleEvent(LogEvent{Msg: "login to server success"})
	assert.Equal(t, StatusRunning, svc.Status())
}

func TestServiceStopFromAnyState(t *testing.T) {
	svc, fl := newTestService(t)
	require.NoError(t, svc.Stop())
	assert.Equal(t, StatusStopped, svc.Status())

	require.NoError(t, svc.Start(validInput()))
	require.Equal(t, StatusConnecting, svc.Status())
	require.NoError(t, svc.Stop())
	assert.Equal(t, StatusStopped, svc.Status())
	_, stops := fl.counts()
	assert.Equal(t, 3, stops)
}

func TestServiceSingleFlight(t *testing.T) {
	svc, fl := newTestService(t)
	gate := make(chan struct{})
	fl.mu.Lock()
	fl.stopGate = gate
	fl.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- svc.Start(validInput()) }()

	require.Eventually(t, svc.Busy, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, svc.Start(validInput()), ErrBusy)
	assert.ErrorIs(t, svc.Stop(), ErrBusy)

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, svc.Busy())
	starts, _ := fl.counts()
	assert.Equal(t, 1, starts)
}

func TestServiceConsumesSubscription(t *testing.T) {
	svc, fl := newTestService(t)

	fl.Publish(LogEvent{Msg: "try to connect to server", Level: LevelInfo})
	fl.Publish(LogEvent{Msg: "login to server success", Level: LevelInfo})
	fl.Publish(LogEvent{Msg: "", Level: LevelInfo})

	assert.Eventually(t, func() bool {
		return svc.Status() == StatusRunning && len(svc.Logs()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestServiceCloseReleasesSubscription(t *testing.T) {
	fl := &fakeLauncher{}
	svc := NewService(fl, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc.Close()
	svc.Close()

	fl.Broadcaster.mu.Lock()
	n := len(fl.subs)
	fl.Broadcaster.mu.Unlock()
	assert.Zero(t, n)

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriptionBuffer*2; i++ {
			fl.Publish(LogEvent{Msg: "line"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after close")
	}
}

func TestServiceLogCapacity(t *testing.T) {
	svc, _ := newTestService(t, WithLogCapacity(3))
	for i := 0; i < 5; i++ {
		svc.handleEvent(LogEvent{Msg: fmt.Sprintf("line %d", i)})
	}
	logs := svc.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, "line 2", logs[0].Message)
}

func TestServiceSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	svc.handleEvent(LogEvent{Msg: "try to connect to server"})

	snap := svc.Snapshot()
	assert.Equal(t, StatusConnecting, snap.Status)
	assert.False(t, snap.Busy)
	require.Len(t, snap.Logs, 1)
}
