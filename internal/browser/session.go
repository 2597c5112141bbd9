// Package browser drives Chrome through go-rod and exposes the page surface consumed by case execution.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"tat/internal/config"
)

// Session owns one Chrome instance shared by every worker page.
type Session struct {
	cfg    *config.Config
	logger *zap.Logger

	mu         sync.Mutex
	launcher   *launcher.Launcher
	browser    *rod.Browser
	controlURL string
}

// NewSession creates a session; nothing is launched until Start.
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{cfg: cfg, logger: logger}
}

// Start connects to an existing Chrome (control_url) or launches a new one.
// ctx bounds startup only; the connection lives until Shutdown.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}

	// If we already have a browser, verify it's still alive
	if s.browser != nil {
		if _, err := s.browser.Version(); err == nil {
			return nil
		}
		s.logger.Warn("stale browser connection, reconnecting")
		_ = s.browser.Close()
		s.browser = nil
		s.controlURL = ""
	}

	controlURL := s.cfg.Browser.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(s.cfg.Browser.Headless)
		if s.cfg.Browser.Bin != "" {
			l = l.Bin(s.cfg.Browser.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		s.launcher = l
		controlURL = url
	}

	// rod ties its event loop to the browser context, so it must not be a run context
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if s.launcher != nil {
			s.launcher.Cleanup()
			s.launcher = nil
		}
		return fmt.Errorf("connect to chrome: %w", err)
	}

	s.browser = b
	s.controlURL = controlURL
	s.logger.Debug("browser connected", zap.String("control_url", controlURL), zap.Bool("headless", s.cfg.Browser.Headless))
	return nil
}

// NewPage opens an isolated page bound to the application under test.
// ctx bounds page creation; every page call takes its own context.
func (s *Session) NewPage(ctx context.Context) (*Page, error) {
	s.mu.Lock()
	b := s.browser
	s.mu.Unlock()
	if b == nil {
		return nil, errors.New("browser not connected")
	}

	incognito, err := b.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &Page{
		page:       page.Context(context.Background()),
		baseURL:    s.cfg.BaseURL,
		selectors:  s.cfg.Selectors,
		navTimeout: s.cfg.Browser.NavigationTimeout,
	}, nil
}

// Shutdown closes the browser and cleans up a launched process.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	s.controlURL = ""
	return err
}
