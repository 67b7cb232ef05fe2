package frpc

import (
	"errors"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"frpcpanel/internal/config"
	"frpcpanel/internal/validation"
)

type Status string

const (
	StatusStopped    Status = "stopped"
	StatusConnecting Status = "connecting"
	StatusRunning    Status = "running"
)

var ErrBusy = errors.New("frpc: start or stop already in progress")

type StartInput struct {
	ServerAddr string
	ServerPort string
	Token      string
	Proxies    []config.ProxyItem
}

// ValidationError aborts a Start before anything is launched.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

type StatusSnapshot struct {
	Status Status
	Busy   bool
	Logs   []LogEntry
}

type Option func(*Service)

func WithClassifier(c Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithLogCapacity(n int) Option {
	return func(s *Service) { s.logs = NewLogBuffer(n) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the frpc lifecycle and infers connection status from the
// lines frpc prints.
//
// Start and Stop are single flight. Log-driven transitions are not gated by
// that guard; instead the service is disarmed by Stop or a fatal line and
// ignores running/connecting hints until the next Start, so a late success
// line cannot flip a stopped panel back to running.
type Service struct {
	launcher   Launcher
	classifier Classifier
	logs       *LogBuffer
	logger     *slog.Logger
	now        func() time.Time

	busy atomic.Bool

	mu       sync.Mutex
	status   Status
	disarmed bool

	sub       Subscription
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewService subscribes to the launcher's output right away; call Close to
// release the subscription.
func NewService(l Launcher, opts ...Option) *Service {
	s := &Service{
		launcher:   l,
		classifier: DefaultClassifier(),
		logger:     slog.Default(),
		now:        time.Now,
		status:     StatusStopped,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logs == nil {
		s.logs = NewLogBuffer(DefaultLogCapacity)
	}

	s.sub = l.Subscribe()
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Service) loop() {
	defer s.wg.Done()
	events := s.sub.Events()
	for {
		select {
		case <-s.done:
			return
		case ev := <-events:
			s.handleEvent(ev)
		}
	}
}

func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.sub.Close()
		s.wg.Wait()
	})
}

func (s *Service) Start(in StartInput) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	// Nothing may be running when the new process comes up.
	_ = s.launcher.Stop()
	s.mu.Lock()
	s.disarmed = true
	s.mu.Unlock()

	if errs := validation.ValidateStart(in.ServerAddr, in.ServerPort, in.Proxies); len(errs) > 0 {
		for _, fe := range errs {
			s.appendLog(fe.Message, LevelError)
		}
		s.setStatus(StatusStopped)
		return &ValidationError{Errors: errs}
	}

	text, err := BuildConfig(in)
	if err != nil {
		s.appendLog("Start failed: "+err.Error(), LevelError)
		s.setStatus(StatusStopped)
		return err
	}

	s.mu.Lock()
	s.status = StatusConnecting
	s.disarmed = false
	s.mu.Unlock()

	if err := s.launcher.Start(text); err != nil {
		s.appendLog(startErrorMessage(err), LevelError)
		s.mu.Lock()
		s.status = StatusStopped
		s.disarmed = true
		s.mu.Unlock()
		return err
	}

	s.logger.Info("frpc starting", "server", in.ServerAddr, "port", in.ServerPort, "proxies", len(in.Proxies))
	s.appendLog("--- Service Starting ---", LevelInfo)
	return nil
}

func (s *Service) Stop() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	s.status = StatusStopped
	s.disarmed = true
	s.mu.Unlock()

	if err := s.launcher.Stop(); err != nil {
		s.appendLog("Stop failed: "+err.Error(), LevelError)
		return err
	}
	s.appendLog("--- Service Stopped ---", LevelInfo)
	return nil
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Service) Busy() bool {
	return s.busy.Load()
}

func (s *Service) Logs() []LogEntry {
	return s.logs.Entries()
}

func (s *Service) Snapshot() StatusSnapshot {
	return StatusSnapshot{
		Status: s.Status(),
		Busy:   s.Busy(),
		Logs:   s.logs.Entries(),
	}
}

func (s *Service) handleEvent(ev LogEvent) {
	if ev.Msg == "" {
		return
	}
	level := ev.Level
	if level == "" {
		level = LevelInfo
	}
	s.appendLog(ev.Msg, level)

	hint, ok := s.classifier.Classify(ev.Msg)
	if !ok {
		return
	}
	if s.applyHint(hint) {
		if err := s.launcher.Stop(); err != nil {
			s.logger.Warn("stop after fatal frpc line failed", "error", err)
		}
	}
}

// applyHint updates status and reports whether a stop must be requested.
func (s *Service) applyHint(h Hint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch h {
	case HintRunning, HintConnecting:
		if s.disarmed {
			s.logger.Debug("status hint ignored while stopped", "hint", h.String())
			return false
		}
		next := StatusConnecting
		if h == HintRunning {
			next = StatusRunning
		}
		if next != s.status {
			s.logger.Info("frpc status changed", "from", s.status, "to", next)
		}
		s.status = next
		return false
	case HintFatal:
		wasArmed := !s.disarmed
		s.status = StatusStopped
		s.disarmed = true
		if wasArmed {
			s.logger.Warn("fatal frpc line, stopping")
		}
		return wasArmed
	}
	return false
}

func (s *Service) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Service) appendLog(msg, level string) {
	s.logs.Append(LogEntry{Message: msg, Level: level, Time: s.now()})
}

func startErrorMessage(err error) string {
	lower := strings.ToLower(err.Error())
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) ||
		strings.Contains(lower, "cannot find the file") || strings.Contains(lower, "not found") {
		return "Start failed: frpc executable not found. Put frpc on PATH or set frpc_path in settings.yaml."
	}
	return "Start failed: " + err.Error()
}
