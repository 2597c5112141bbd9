package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tat/internal/config"
	"tat/internal/domain"
)

// Timing holds every bounded wait used while executing a job
type Timing struct {
	AssertTimeout  time.Duration
	GracePeriod    time.Duration
	CaptureTimeout time.Duration
	PollInterval   time.Duration

	// Hand-authored scenarios
	ShortTimeout time.Duration
	KeyDelay     time.Duration
	FastKeyDelay time.Duration
	Settle       time.Duration
}

// DefaultTiming returns the timing derived from cfg
func DefaultTiming(cfg *config.Config) Timing {
	return Timing{
		AssertTimeout:  cfg.Timing.AssertTimeout,
		GracePeriod:    cfg.Timing.GracePeriod,
		CaptureTimeout: cfg.Timing.CaptureTimeout,
		PollInterval:   cfg.Timing.PollInterval,
		ShortTimeout:   10 * time.Second,
		KeyDelay:       100 * time.Millisecond,
		FastKeyDelay:   50 * time.Millisecond,
		Settle:         2 * time.Second,
	}
}

// Runner executes a single case or scenario against a surface
type Runner struct {
	timing Timing
	logger *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	return NewRunnerWithTiming(DefaultTiming(cfg), logger)
}

// NewRunnerWithTiming creates a Runner with explicit timing
func NewRunnerWithTiming(timing Timing, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{timing: timing, logger: logger}
}

// Run executes one data-driven case.
//
// The output is captured in a deferred step, so it is read even when the
// expectation times out, another fault is returned, or the case panics.
func (r *Runner) Run(ctx context.Context, s Surface, tc domain.TestCase) (res domain.Result) {
	res = domain.NewResult(tc)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		res.ActualOutput = r.capture(ctx, s)
		res.Status = domain.StatusOf(res.Err)
		res.Duration = time.Since(start)
	}()

	res.Err = r.exercise(ctx, s, tc)
	return res
}

func (r *Runner) exercise(ctx context.Context, s Surface, tc domain.TestCase) error {
	if err := s.Reset(ctx); err != nil {
		return fmt.Errorf("reset page: %w", err)
	}
	if err := s.Fill(ctx, ""); err != nil {
		return fmt.Errorf("clear input: %w", err)
	}
	if err := s.Fill(ctx, tc.Input); err != nil {
		return fmt.Errorf("fill input: %w", err)
	}
	return r.expectOutput(ctx, s, ContainsText(strings.TrimSpace(tc.Expected)), r.timing.AssertTimeout)
}

// capture reads the output text. An empty reading gets one more chance after the
// grace period; a read fault yields "".
func (r *Runner) capture(ctx context.Context, s Surface) string {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timing.CaptureTimeout+r.timing.GracePeriod)
	defer cancel()

	text, err := s.OutputText(ctx)
	if err != nil {
		r.logger.Debug("output capture failed", zap.Error(err))
		return ""
	}
	if strings.TrimSpace(text) != "" {
		return text
	}

	t := time.NewTimer(r.timing.GracePeriod)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return text
	case <-t.C:
	}

	text, err = s.OutputText(ctx)
	if err != nil {
		r.logger.Debug("output capture retry failed", zap.Error(err))
		return ""
	}
	return text
}

// RunScenario executes a hand-authored scenario.
// Its result carries the full title as name and no case metadata.
func (r *Runner) RunScenario(ctx context.Context, s Surface, sc Scenario) (res domain.Result) {
	res = domain.Result{Name: sc.Title, Kind: domain.KindScenario}
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		res.Status = domain.StatusOf(res.Err)
		res.Duration = time.Since(start)
	}()

	if err := s.Reset(ctx); err != nil {
		res.Err = fmt.Errorf("reset page: %w", err)
		return res
	}
	res.Err = sc.Run(ctx, r, s)
	return res
}

func (r *Runner) expectOutput(ctx context.Context, s Surface, m Matcher, timeout time.Duration) error {
	return Expect(ctx, "output", s.OutputText, m, timeout, r.timing.PollInterval)
}

func (r *Runner) expectInput(ctx context.Context, s Surface, m Matcher, timeout time.Duration) error {
	return Expect(ctx, "input", s.InputValue, m, timeout, r.timing.PollInterval)
}

func (r *Runner) pause(ctx context.Context, d time.Duration) error {
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
