package config

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultSaveDelay = 800 * time.Millisecond

// Saver coalesces bursts of edits into a single Store write once the
// document has been left alone for the configured delay.
type Saver struct {
	store  *Store
	delay  time.Duration
	logger *slog.Logger

	// writeMu orders writes so a newer document is never overwritten by an
	// older one still in flight.
	writeMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending *AppConfig
	closed  bool
}

func NewSaver(store *Store, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{store: store, delay: delay, logger: logger}
}

func (s *Saver) Schedule(cfg *AppConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pending = cfg.Clone()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		_ = s.Flush()
	})
}

// SaveNow drops any pending write and persists cfg immediately.
func (s *Saver) SaveNow(cfg *AppConfig) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.mu.Unlock()
	return s.write(cfg)
}

// Flush writes the pending document, if any. It waits for a write already
// in progress.
func (s *Saver) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if cfg == nil {
		return nil
	}
	return s.write(cfg)
}

// Close writes what is pending and returns only once no write is running.
func (s *Saver) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush()
}

func (s *Saver) write(cfg *AppConfig) error {
	if err := s.store.Save(cfg); err != nil {
		s.logger.Error("save config failed", "path", s.store.Path(), "error", err)
		return err
	}
	s.logger.Debug("config saved", "path", s.store.Path(), "proxies", len(cfg.Proxies))
	return nil
}
