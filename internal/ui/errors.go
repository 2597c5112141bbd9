package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tat/internal/domain"
)

// ErrorViewer displays failed cases in an interactive TUI
type ErrorViewer struct{}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer() *ErrorViewer {
	return &ErrorViewer{}
}

// View displays failed cases in an interactive TUI
func (ev *ErrorViewer) View(failures []domain.Result) error {
	if len(failures) == 0 {
		color.Green("✓ No failed cases found!")
		return nil
	}

	// Cases marked as reviewed during this session
	reviewed := make(map[int]bool)

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, listItemText(failures[index], index, reviewed[index]), "")
	}

	for i := range failures {
		list.AddItem(listItemText(failures[i], i, false), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		pending := 0
		for i := range failures {
			if !reviewed[i] {
				pending++
			}
		}
		headerView.SetText(fmt.Sprintf(" Failed Cases (%d total, %d not reviewed) | ↑↓ navigate, [yellow]R[white] mark reviewed, → details, ← back, Ctrl+C exit ", len(failures), pending))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(formatFailureStats(failures[index], index+1))
			detailsView.SetText(formatFailureDetails(failures[index]))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(failures) {
					reviewed[index] = !reviewed[index]
					updateListItem(index)
					updateHeader()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(res domain.Result, index int, reviewed bool) string {
	id := res.ID
	if id == "" {
		id = fmt.Sprintf("Case %d", index+1)
	}
	if reviewed {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(id))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(id))
}

// formatFailureDetails formats a failed case using tview color tags
func formatFailureDetails(res domain.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(res.Name))
	if res.Category != "" {
		fmt.Fprintf(&b, "[cyan]Coverage:[white] %s\n\n", tview.Escape(res.Category))
	}
	fmt.Fprintf(&b, "[yellow]Input:[white]\n%s\n\n", tview.Escape(res.Input))
	fmt.Fprintf(&b, "[yellow]Expected Output:[white]\n%s\n\n", tview.Escape(res.Expected))
	fmt.Fprintf(&b, "[yellow]Actual Output:[white]\n%s\n\n", tview.Escape(res.ActualOutput))
	fmt.Fprintf(&b, "[yellow]Remarks:[white]\n%s\n", tview.Escape(res.Remarks))

	return b.String()
}

// formatFailureStats formats the header line of a failed case
func formatFailureStats(res domain.Result, number int) string {
	id := res.ID
	if id == "" {
		id = fmt.Sprintf("Case %d", number)
	}
	return fmt.Sprintf("[cyan]case:[white] [yellow]%s[white] | [cyan]status:[white] [red]%s[white]\n", tview.Escape(id), res.Status)
}
