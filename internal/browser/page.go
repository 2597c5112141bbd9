package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"tat/internal/config"
)

// ErrElementNotFound is returned when a surface element is absent from the page
var ErrElementNotFound = errors.New("element not found")

// Page is the transliteration UI as seen through one browser tab
type Page struct {
	page       *rod.Page
	baseURL    string
	selectors  config.Selectors
	navTimeout time.Duration
}

// Reset navigates to the application's start page and waits for it to load
func (p *Page) Reset(ctx context.Context) error {
	if p.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.navTimeout)
		defer cancel()
	}
	pg := p.page.Context(ctx)
	if err := pg.Navigate(p.baseURL); err != nil {
		return fmt.Errorf("navigate to %s: %w", p.baseURL, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// Fill replaces the input's content with text; empty text clears it
func (p *Page) Fill(ctx context.Context, text string) error {
	pg := p.page.Context(ctx)
	el, err := p.input(pg)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select input text: %w", err)
	}
	if text == "" {
		return pg.Keyboard.Type(input.Backspace)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("fill input: %w", err)
	}
	return nil
}

// TypeSequentially types text one key at a time with delay between keys
func (p *Page) TypeSequentially(ctx context.Context, text string, delay time.Duration) error {
	pg := p.page.Context(ctx)
	el, err := p.input(pg)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus input: %w", err)
	}

	for _, r := range text {
		if r < unicode.MaxASCII && unicode.IsPrint(r) {
			err = pg.Keyboard.Type(input.Key(r))
		} else {
			err = pg.InsertText(string(r))
		}
		if err != nil {
			return fmt.Errorf("type %q: %w", r, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// Backspace presses the backspace key once in the input
func (p *Page) Backspace(ctx context.Context) error {
	pg := p.page.Context(ctx)
	el, err := p.input(pg)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus input: %w", err)
	}
	return pg.Keyboard.Type(input.Backspace)
}

// Clear clicks the clear-action control
func (p *Page) Clear(ctx context.Context) error {
	el, err := p.page.Context(ctx).Element(p.selectors.Clear)
	if err != nil {
		return fmt.Errorf("clear control %s: %w", p.selectors.Clear, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// InputValue returns the current value of the input
func (p *Page) InputValue(ctx context.Context) (string, error) {
	el, err := p.input(p.page.Context(ctx))
	if err != nil {
		return "", err
	}
	value, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read input value: %w", err)
	}
	return value.Str(), nil
}

// OutputText returns the visible text of the output. It does not wait for the element.
func (p *Page) OutputText(ctx context.Context) (string, error) {
	els, err := p.page.Context(ctx).Elements(p.selectors.Output)
	if err != nil {
		return "", fmt.Errorf("query output: %w", err)
	}
	if els.Empty() {
		return "", fmt.Errorf("output %s: %w", p.selectors.Output, ErrElementNotFound)
	}
	return els.First().Text()
}

// Close closes the tab
func (p *Page) Close() error {
	return p.page.Close()
}

// input resolves the first element matching the input selector, waiting for it to appear
func (p *Page) input(pg *rod.Page) (*rod.Element, error) {
	el, err := pg.Element(p.selectors.Input)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", p.selectors.Input, err)
	}
	return el, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
