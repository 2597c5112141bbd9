package execution

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var lexicon = map[string]string{
	"mama":      "මම",
	"gedhara":   "ගෙදර",
	"yanavaa":   "යනවා",
	"saha":      "සහ",
	"passe":     "පස්සෙ",
	"kaema":     "කෑම",
	"kanavaa":   "කනවා",
	"mata":      "මට",
	"suba":      "සුබ",
	"rathriyak": "රාත්‍රියක්",
}

// transliterate converts known words and keeps partial words as typed
func transliterate(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		if out, ok := lexicon[w]; ok {
			words[i] = out
		}
	}
	return strings.Join(words, " ")
}

// fakeSurface is an in-memory transliterator page
type fakeSurface struct {
	mu     sync.Mutex
	input  string
	output string

	stale      bool // output ignores deletions
	resetErr   error
	outputErr  error
	panicOnSet bool
	emptyReads int // number of initial output reads that return ""

	resets int
	reads  int
}

func (f *fakeSurface) set(text string) {
	if f.panicOnSet {
		panic("page crashed")
	}
	f.input = text
	f.output = transliterate(text)
}

func (f *fakeSurface) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	if f.resetErr != nil {
		return f.resetErr
	}
	f.input, f.output = "", ""
	return nil
}

func (f *fakeSurface) Fill(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set(text)
	return nil
}

func (f *fakeSurface) TypeSequentially(_ context.Context, text string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range text {
		f.set(f.input + string(r))
	}
	return nil
}

func (f *fakeSurface) Backspace(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	runes := []rune(f.input)
	if len(runes) == 0 {
		return nil
	}
	f.input = string(runes[:len(runes)-1])
	if !f.stale {
		f.output = transliterate(f.input)
	}
	return nil
}

func (f *fakeSurface) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set("")
	return nil
}

func (f *fakeSurface) InputValue(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input, nil
}

func (f *fakeSurface) OutputText(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.outputErr != nil {
		return "", f.outputErr
	}
	if f.reads <= f.emptyReads {
		return "", nil
	}
	return f.output, nil
}

func (f *fakeSurface) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

var errNoOutput = errors.New("element not found")

func testTiming() Timing {
	return Timing{
		AssertTimeout:  200 * time.Millisecond,
		GracePeriod:    20 * time.Millisecond,
		CaptureTimeout: 100 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
		ShortTimeout:   200 * time.Millisecond,
		FastKeyDelay:   time.Millisecond,
		Settle:         time.Millisecond,
	}
}
