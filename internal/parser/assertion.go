package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/acarl005/stripansi"

	"tat/internal/domain"
)

const (
	RemarkSuccess  = "Success"
	RemarkNoOutput = "No output generated"
	RemarkDiffers  = "Output differs from expected"
	RemarkFailed   = "Failed"
	MaxRemarkRunes = 150
)

var (
	// Color codes that lost their ESC prefix, e.g. "[2m", "[22;31m", "[1;2;3m"
	bareColorCode = regexp.MustCompile(`\[\d+(?:;\d+)*m`)

	receivedString  = regexp.MustCompile(`Received string:\s+"(.*?)"`)
	unexpectedValue = regexp.MustCompile(`unexpected value "(.*?)"`)
)

// AssertionParser parses assertion failure messages
type AssertionParser struct{}

// NewAssertionParser creates a new AssertionParser
func NewAssertionParser() *AssertionParser {
	return &AssertionParser{}
}

// StripANSI removes terminal escape sequences, including bare bracketed color codes
func StripANSI(s string) string {
	s = stripansi.Strip(s)
	return bareColorCode.ReplaceAllString(s, "")
}

// ExtractActual scrapes the probable actual output from an assertion message.
// It is a last resort for results whose output could not be read from the page.
func (p *AssertionParser) ExtractActual(message string) (string, bool) {
	clean := StripANSI(message)

	if m := receivedString.FindStringSubmatch(clean); len(m) >= 2 {
		return m[1], true
	}
	if m := unexpectedValue.FindStringSubmatch(clean); len(m) >= 2 {
		return m[1], true
	}
	return "", false
}

// Remarks classifies a finished result
func (p *AssertionParser) Remarks(result domain.Result, actual string) string {
	if result.Passed() {
		return RemarkSuccess
	}
	if strings.TrimSpace(actual) == "" {
		return RemarkNoOutput
	}
	if result.Expected != "" && !strings.Contains(actual, strings.TrimSpace(result.Expected)) {
		return RemarkDiffers
	}

	msg := RemarkFailed
	if result.Err != nil {
		msg = result.Err.Error()
	}
	return Truncate(strings.ReplaceAll(StripANSI(msg), "\n", " "), MaxRemarkRunes)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
