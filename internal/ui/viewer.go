package ui

import "tat/internal/domain"

// Viewer displays failed results in an interactive TUI
type Viewer interface {
	View(failures []domain.Result) error
}
