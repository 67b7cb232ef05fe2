// Package app holds the panel's application state: the config document being
// edited, the frpc service and the collaborators views need. Views receive
// an *App and never touch persistence or the process directly.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"frpcpanel/internal/config"
	"frpcpanel/internal/frpc"
	"frpcpanel/internal/validation"
)

type ProxyField string

const (
	FieldName          ProxyField = "name"
	FieldType          ProxyField = "type"
	FieldLocalIP       ProxyField = "local_ip"
	FieldLocalPort     ProxyField = "local_port"
	FieldRemotePort    ProxyField = "remote_port"
	FieldCustomDomains ProxyField = "custom_domains"
)

var ErrNoSuchProxy = errors.New("no such tunnel")

type App struct {
	logger *slog.Logger
	store  *config.Store
	saver  *config.Saver
	svc    *frpc.Service
	clip   Clipboard

	mu  sync.Mutex
	cfg *config.AppConfig
}

type Deps struct {
	Config    *config.AppConfig
	Store     *config.Store
	Saver     *config.Saver
	Service   *frpc.Service
	Clipboard Clipboard
	Logger    *slog.Logger
}

func NewWithDeps(d Deps) *App {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clipboard == nil {
		d.Clipboard = SystemClipboard()
	}
	if d.Config == nil {
		d.Config = config.DefaultConfig()
	}
	return &App{
		logger: d.Logger,
		store:  d.Store,
		saver:  d.Saver,
		svc:    d.Service,
		clip:   d.Clipboard,
		cfg:    d.Config.Clone(),
	}
}

// New loads the stored document and wires the real frpc process behind the
// service. An unreadable document is replaced by defaults.
func New(settings *config.Settings, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store := config.NewStore(settings.DataDir)
	cfg, err := store.Load()
	if err != nil {
		logger.Warn("config unreadable, using defaults", "path", store.Path(), "error", err)
		cfg = config.DefaultConfig()
	}

	bin, err := frpc.ResolveBinaryPath(settings.FrpcPath, config.CacheDir(settings.DataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve frpc binary: %w", err)
	}
	launcher := frpc.NewProcessLauncher(bin, settings.DataDir, logger)

	return NewWithDeps(Deps{
		Config:    cfg,
		Store:     store,
		Saver:     config.NewSaver(store, settings.SaveDelay, logger),
		Service:   frpc.NewService(launcher, frpc.WithLogger(logger)),
		Clipboard: SystemClipboard(),
		Logger:    logger,
	}), nil
}

func (a *App) Store() *config.Store {
	return a.store
}

// Config returns a copy of the document being edited.
func (a *App) Config() *config.AppConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Clone()
}

func (a *App) edit(fn func(cfg *config.AppConfig) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := fn(a.cfg); err != nil {
		return err
	}
	a.saver.Schedule(a.cfg)
	return nil
}

func (a *App) SetServerAddr(v string) {
	_ = a.edit(func(cfg *config.AppConfig) error {
		cfg.ServerAddr = v
		return nil
	})
}

func (a *App) SetServerPort(v string) {
	_ = a.edit(func(cfg *config.AppConfig) error {
		cfg.ServerPort = v
		return nil
	})
}

func (a *App) SetToken(v string) {
	_ = a.edit(func(cfg *config.AppConfig) error {
		cfg.Token = v
		return nil
	})
}

func (a *App) Language() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cfg.Language == "" {
		return config.LanguageZH
	}
	return a.cfg.Language
}

// ToggleLanguage flips between zh and en and persists right away.
func (a *App) ToggleLanguage() string {
	a.mu.Lock()
	next := config.LanguageEN
	if a.cfg.Language == config.LanguageEN {
		next = config.LanguageZH
	}
	a.cfg.Language = next
	snapshot := a.cfg.Clone()
	a.mu.Unlock()

	if err := a.saver.SaveNow(snapshot); err != nil {
		a.logger.Warn("save language failed", "error", err)
	}
	return next
}

// AddProxy appends a tcp tunnel with placeholder values.
func (a *App) AddProxy() config.ProxyItem {
	var added config.ProxyItem
	_ = a.edit(func(cfg *config.AppConfig) error {
		added = config.ProxyItem{
			ID:         uuid.NewString(),
			Name:       fmt.Sprintf("service_%d", len(cfg.Proxies)+1),
			Type:       config.ProxyTCP,
			LocalIP:    "127.0.0.1",
			LocalPort:  "80",
			RemotePort: config.StringPtr(""),
		}
		cfg.Proxies = append(cfg.Proxies, added)
		return nil
	})
	return added
}

func (a *App) UpdateProxy(index int, field ProxyField, value string) error {
	return a.edit(func(cfg *config.AppConfig) error {
		if index < 0 || index >= len(cfg.Proxies) {
			return fmt.Errorf("%w: %d", ErrNoSuchProxy, index)
		}
		p := &cfg.Proxies[index]
		switch field {
		case FieldName:
			p.Name = value
		case FieldType:
			t, err := config.ParseProxyType(value)
			if err != nil {
				return err
			}
			p.Type = t
		case FieldLocalIP:
			p.LocalIP = value
		case FieldLocalPort:
			p.LocalPort = value
		case FieldRemotePort:
			p.RemotePort = config.StringPtr(value)
		case FieldCustomDomains:
			p.CustomDomains = config.StringPtr(value)
		default:
			return fmt.Errorf("unknown tunnel field %q", field)
		}
		return nil
	})
}

func (a *App) RemoveProxy(index int) error {
	return a.edit(func(cfg *config.AppConfig) error {
		if index < 0 || index >= len(cfg.Proxies) {
			return fmt.Errorf("%w: %d", ErrNoSuchProxy, index)
		}
		cfg.Proxies = append(cfg.Proxies[:index], cfg.Proxies[index+1:]...)
		return nil
	})
}

func (a *App) FieldErrors() validation.ConfigFieldErrors {
	a.mu.Lock()
	defer a.mu.Unlock()
	return validation.ValidateFields(a.cfg.ServerAddr, a.cfg.ServerPort, a.cfg.Proxies)
}

func (a *App) StartErrors() []validation.FieldError {
	a.mu.Lock()
	defer a.mu.Unlock()
	return validation.ValidateStart(a.cfg.ServerAddr, a.cfg.ServerPort, a.cfg.Proxies)
}

func (a *App) StartInput() frpc.StartInput {
	cfg := a.Config()
	return frpc.StartInput{
		ServerAddr: cfg.ServerAddr,
		ServerPort: cfg.ServerPort,
		Token:      cfg.Token,
		Proxies:    cfg.Proxies,
	}
}

func (a *App) Start() error {
	return a.svc.Start(a.StartInput())
}

func (a *App) Stop() error {
	return a.svc.Stop()
}

// Toggle starts frpc when stopped and stops it otherwise, including while
// it is still connecting.
func (a *App) Toggle() error {
	if a.svc.Status() == frpc.StatusStopped {
		return a.Start()
	}
	return a.Stop()
}

func (a *App) Snapshot() frpc.StatusSnapshot {
	return a.svc.Snapshot()
}

// RemoteAddress is where a tunnel is reachable from outside: its custom
// domain for http/https, server address and remote port otherwise.
func (a *App) RemoteAddress(p config.ProxyItem) string {
	if p.Type.UsesDomain() {
		return strings.TrimSpace(p.CustomDomainsValue())
	}
	a.mu.Lock()
	host := strings.TrimSpace(a.cfg.ServerAddr)
	a.mu.Unlock()
	return net.JoinHostPort(host, strings.TrimSpace(p.RemotePortValue()))
}

func (a *App) CopyRemoteAddress(index int) (string, error) {
	cfg := a.Config()
	if index < 0 || index >= len(cfg.Proxies) {
		return "", fmt.Errorf("%w: %d", ErrNoSuchProxy, index)
	}
	addr := a.RemoteAddress(cfg.Proxies[index])
	if err := a.clip.WriteAll(addr); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return addr, nil
}

const shutdownStopTimeout = 10 * time.Second

// stopForShutdown keeps asking the service to stop while a Start is still
// in flight, so a process launched just before quitting is not left behind.
func (a *App) stopForShutdown() error {
	deadline := time.Now().Add(shutdownStopTimeout)
	for {
		err := a.svc.Stop()
		if !errors.Is(err, frpc.ErrBusy) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("stop frpc on shutdown: %w", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Close writes any pending edits, stops frpc and releases the service.
func (a *App) Close() error {
	var errs []error
	if err := a.saver.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.svc.Busy() || a.svc.Status() != frpc.StatusStopped {
		if err := a.stopForShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	a.svc.Close()
	return errors.Join(errs...)
}
