package execution

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Matcher checks a surface reading against an expectation
type Matcher struct {
	Name     string // toContainText, toHaveText, toHaveValue
	Expected string
	match    func(actual string) bool
}

// ContainsText matches when the whitespace-normalized text contains expected
func ContainsText(expected string) Matcher {
	want := normalize(expected)
	return Matcher{
		Name:     "toContainText",
		Expected: expected,
		match:    func(actual string) bool { return strings.Contains(normalize(actual), want) },
	}
}

// HasText matches when the whitespace-normalized text equals expected
func HasText(expected string) Matcher {
	want := normalize(expected)
	return Matcher{
		Name:     "toHaveText",
		Expected: expected,
		match:    func(actual string) bool { return normalize(actual) == want },
	}
}

// HasValue matches when an input's value equals expected exactly
func HasValue(expected string) Matcher {
	return Matcher{
		Name:     "toHaveValue",
		Expected: expected,
		match:    func(actual string) bool { return actual == expected },
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AssertionError reports an expectation that did not hold before its timeout
type AssertionError struct {
	Target   string
	Matcher  string
	Expected string
	Received string
	Timeout  time.Duration
	Err      error // last read error, if the target could never be read
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timed out %dms waiting for expect(%s).%s(expected)\n\n", e.Timeout.Milliseconds(), e.Target, e.Matcher)

	label := "Expected string"
	if e.Matcher == "toContainText" {
		label = "Expected substring"
	}
	fmt.Fprintf(&b, "%s: \"%s\"\n", label, e.Expected)

	if e.Err != nil && e.Received == "" {
		fmt.Fprintf(&b, "Error: %v\n", e.Err)
	} else {
		fmt.Fprintf(&b, "Received string: \"%s\"\n", e.Received)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// Reader reads the current state of a surface element
type Reader func(ctx context.Context) (string, error)

// Expect polls read until m matches or timeout elapses.
// A cancelled parent context aborts the wait with the context's error.
func Expect(ctx context.Context, target string, read Reader, m Matcher, timeout, poll time.Duration) error {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var (
		last    string
		lastErr error
	)
	for {
		text, err := read(waitCtx)
		if err == nil {
			last, lastErr = text, nil
			if m.match(text) {
				return nil
			}
		} else {
			lastErr = err
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("expect(%s).%s: %w", target, m.Name, ctx.Err())
			}
			return &AssertionError{
				Target:   target,
				Matcher:  m.Name,
				Expected: m.Expected,
				Received: last,
				Timeout:  timeout,
				Err:      lastErr,
			}
		case <-ticker.C:
		}
	}
}
