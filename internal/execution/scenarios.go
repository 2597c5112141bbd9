package execution

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Scenario is a hand-authored UI case that does not come from the case table
type Scenario struct {
	Title string
	Run   func(ctx context.Context, r *Runner, s Surface) error
}

// ID returns the title's text before the first colon
func (sc Scenario) ID() string {
	id, _, _ := strings.Cut(sc.Title, ":")
	return id
}

// Scenarios returns the fixed hand-authored UI scenarios
func Scenarios() []Scenario {
	return []Scenario{
		{Title: "Pos_UI_01: Real-time Update", Run: realTimeUpdate},
		{Title: "Pos_UI_0002: Input field clear functionality", Run: clearInput},
		{Title: "Neg_UI_0001: Output does not update correctly after deleting part of the input", Run: deleteAfterStabilizing},
	}
}

const (
	incrementalInput  = "mata"
	incrementalOutput = "මට"

	clearInputText = "suba rathriyak"

	deletionFullInput   = "mama gedhara yanavaa saha passe kaema kanavaa"
	deletionMarker      = "පස්සෙ"
	deletionSuffix      = " saha passe kaema kanavaa"
	deletionFinalOutput = "මම ගෙදර යනවා"
)

func realTimeUpdate(ctx context.Context, r *Runner, s Surface) error {
	if err := s.TypeSequentially(ctx, incrementalInput, r.timing.KeyDelay); err != nil {
		return err
	}
	return r.expectOutput(ctx, s, HasText(incrementalOutput), r.timing.AssertTimeout)
}

func clearInput(ctx context.Context, r *Runner, s Surface) error {
	if err := s.Fill(ctx, clearInputText); err != nil {
		return err
	}
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if err := r.expectInput(ctx, s, HasValue(""), r.timing.AssertTimeout); err != nil {
		return err
	}
	return r.expectOutput(ctx, s, HasText(""), r.timing.AssertTimeout)
}

// deleteAfterStabilizing guards against stale output after deleting part of the input.
// The final check must stay an equality check: stale output still contains the expected prefix.
func deleteAfterStabilizing(ctx context.Context, r *Runner, s Surface) error {
	if err := s.TypeSequentially(ctx, deletionFullInput, r.timing.FastKeyDelay); err != nil {
		return err
	}
	if err := r.pause(ctx, r.timing.Settle); err != nil {
		return err
	}
	if err := r.expectOutput(ctx, s, ContainsText(deletionMarker), r.timing.ShortTimeout); err != nil {
		return err
	}

	for i := 0; i < utf8.RuneCountInString(deletionSuffix); i++ {
		if err := s.Backspace(ctx); err != nil {
			return fmt.Errorf("backspace %d: %w", i+1, err)
		}
		if err := r.pause(ctx, r.timing.FastKeyDelay); err != nil {
			return err
		}
	}

	return r.expectOutput(ctx, s, HasText(deletionFinalOutput), r.timing.ShortTimeout)
}
