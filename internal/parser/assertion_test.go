package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tat/internal/domain"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "csi color", input: "\x1b[31mred\x1b[39m text", expected: "red text"},
		{name: "bare single code", input: "[2mexpect[22m(locator)", expected: "expect(locator)"},
		{name: "bare double code", input: "[22;31mfailed[39m", expected: "failed"},
		{name: "bare triple code", input: "[1;2;3mx", expected: "x"},
		{name: "brackets without codes survive", input: "array[0] [ok]", expected: "array[0] [ok]"},
		{name: "sinhala untouched", input: "මම ගෙදර", expected: "මම ගෙදර"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripANSI(tt.input))
		})
	}
}

func TestAssertionParser_ExtractActual(t *testing.T) {
	p := NewAssertionParser()

	tests := []struct {
		name     string
		message  string
		expected string
		found    bool
	}{
		{
			name:     "received string",
			message:  "Expected substring: \"මම\"\nReceived string:  \"මමා\"\n",
			expected: "මමා",
			found:    true,
		},
		{
			name:     "received string behind color codes",
			message:  "\x1b[31mReceived string: \x1b[39m\"[31mabc[39m\"",
			expected: "abc",
			found:    true,
		},
		{
			name:     "unexpected value",
			message:  "locator resolved to <div> unexpected value \"xyz\"",
			expected: "xyz",
			found:    true,
		},
		{
			name:    "nothing to extract",
			message: "element not found",
			found:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.ExtractActual(tt.message)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAssertionParser_Remarks(t *testing.T) {
	p := NewAssertionParser()
	boom := errors.New("Timed out 15000ms\nwaiting for \x1b[2mexpect\x1b[22m")

	tests := []struct {
		name     string
		result   domain.Result
		actual   string
		expected string
	}{
		{
			name:     "pass",
			result:   domain.Result{Status: domain.StatusPass, Expected: "x"},
			actual:   "x",
			expected: RemarkSuccess,
		},
		{
			name:     "empty output",
			result:   domain.Result{Status: domain.StatusFail, Expected: "x", Err: boom},
			actual:   "  \n",
			expected: RemarkNoOutput,
		},
		{
			name:     "differs",
			result:   domain.Result{Status: domain.StatusFail, Expected: " මට ", Err: boom},
			actual:   "මාට",
			expected: RemarkDiffers,
		},
		{
			name:     "empty expected never differs",
			result:   domain.Result{Status: domain.StatusFail, Expected: "", Err: boom},
			actual:   "something",
			expected: "Timed out 15000ms waiting for expect",
		},
		{
			name:     "contained but failed uses message",
			result:   domain.Result{Status: domain.StatusFail, Expected: "මට", Err: boom},
			actual:   "මට",
			expected: "Timed out 15000ms waiting for expect",
		},
		{
			name:     "no fault",
			result:   domain.Result{Status: domain.StatusFail},
			actual:   "x",
			expected: RemarkFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Remarks(tt.result, tt.actual))
		})
	}

	t.Run("long message is truncated", func(t *testing.T) {
		long := domain.Result{Status: domain.StatusFail, Err: errors.New(strings.Repeat("ම", 400))}
		got := p.Remarks(long, "x")
		assert.Equal(t, MaxRemarkRunes, len([]rune(got)))
	})
}
