package parser

import "tat/internal/domain"

// Parser turns a finished result into its report form
type Parser interface {
	ExtractActual(message string) (string, bool)
	Remarks(result domain.Result, actual string) string
}
