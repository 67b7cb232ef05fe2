package frpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

const (
	LevelInfo  = "info"
	LevelError = "error"
)

// exitMarker prefixes the event published when frpc dies without being asked to.
const exitMarker = "frpc process exited unexpectedly"

var ErrAlreadyRunning = errors.New("frpc is already running")

// LogEvent is one line of frpc output. Level is "info" for stdout and
// "error" for stderr.
type LogEvent struct {
	Msg   string
	Level string
}

type Subscription interface {
	Events() <-chan LogEvent
	Close()
}

// Launcher is the process control boundary the Service drives.
type Launcher interface {
	Start(configText string) error
	Stop() error
	Subscribe() Subscription
}

const subscriptionBuffer = 64

// Broadcaster fans LogEvents out to every open Subscription. Publish blocks
// on a full subscriber until it drains or closes, so lines are never dropped
// on the way to the status machine.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

type subscription struct {
	b    *Broadcaster
	ch   chan LogEvent
	done chan struct{}
	once sync.Once
}

func (s *subscription) Events() <-chan LogEvent {
	return s.ch
}

func (s *subscription) Close() {
	s.once.Do(func() {
		s.b.mu.Lock()
		delete(s.b.subs, s)
		s.b.mu.Unlock()
		close(s.done)
	})
}

func (b *Broadcaster) Subscribe() Subscription {
	s := &subscription{
		b:    b,
		ch:   make(chan LogEvent, subscriptionBuffer),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	if b.subs == nil {
		b.subs = map[*subscription]struct{}{}
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

func (b *Broadcaster) Publish(ev LogEvent) {
	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		}
	}
}

// ProcessLauncher runs the real frpc binary against a generated config file.
type ProcessLauncher struct {
	Broadcaster

	binary  string
	workDir string
	logger  *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
}

func NewProcessLauncher(binary, workDir string, logger *slog.Logger) *ProcessLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessLauncher{binary: binary, workDir: workDir, logger: logger}
}

func (l *ProcessLauncher) ConfigPath() string {
	return filepath.Join(l.workDir, "generated", "frpc.ini")
}

func (l *ProcessLauncher) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cmd != nil
}

func (l *ProcessLauncher) Start(configText string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		return ErrAlreadyRunning
	}

	cfgPath := l.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(configText), 0o600); err != nil {
		return fmt.Errorf("write frpc config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, l.binary, "-c", cfgPath)
	cmd.Env = os.Environ()
	hideWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return err
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", l.binary, err)
	}

	l.cmd = cmd
	l.cancel = cancel
	l.logger.Info("frpc started", "binary", l.binary, "config", cfgPath, "pid", cmd.Process.Pid)

	var wg sync.WaitGroup
	wg.Add(2)
	go l.pump(stdout, LevelInfo, &wg)
	go l.pump(stderr, LevelError, &wg)
	go l.wait(cmd, &wg)

	return nil
}

func (l *ProcessLauncher) Stop() error {
	l.mu.Lock()
	cmd := l.cmd
	cancel := l.cancel
	l.cmd = nil
	l.cancel = nil
	l.mu.Unlock()

	if cmd == nil {
		return nil
	}
	defer cancel()

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill frpc: %w", err)
	}
	l.logger.Info("frpc stopped", "pid", cmd.Process.Pid)
	return nil
}

func (l *ProcessLauncher) pump(r io.Reader, level string, wg *sync.WaitGroup) {
	defer wg.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		l.Publish(LogEvent{Msg: line, Level: level})
	}
}

// wait reaps the process once both pipes are drained. Exits that Stop did
// not request are reported as an error line.
func (l *ProcessLauncher) wait(cmd *exec.Cmd, wg *sync.WaitGroup) {
	wg.Wait()
	err := cmd.Wait()

	l.mu.Lock()
	unexpected := l.cmd == cmd
	if unexpected {
		l.cmd = nil
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	if !unexpected {
		return
	}
	msg := exitMarker
	if err != nil {
		msg += ": " + err.Error()
	}
	l.logger.Warn("frpc exited", "error", err)
	l.Publish(LogEvent{Msg: msg, Level: LevelError})
}
