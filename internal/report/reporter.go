// Package report turns finished results into report rows and a run summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tat/internal/domain"
	"tat/internal/parser"
	"tat/internal/storage"
)

// Header is the first line of every report
var Header = []string{
	"TC ID",
	"Test Case Name",
	"Input",
	"Expected Output",
	"Actual Output",
	"Status",
	"Remarks",
	"Coverage",
}

// Reporter implements the run lifecycle: OnBegin, OnCaseEnd for every result, OnEnd.
type Reporter struct {
	storage storage.Storage
	parser  parser.Parser
	base    *zap.Logger
	logger  *zap.Logger
	out     io.Writer

	mu      sync.Mutex
	summary domain.RunSummary
}

// NewReporter creates a new Reporter printing lifecycle messages to out
func NewReporter(st storage.Storage, p parser.Parser, logger *zap.Logger, out io.Writer) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		storage: st,
		parser:  p,
		base:    logger,
		logger:  logger,
		out:     out,
	}
}

// OnBegin (re)creates the report with its header line
func (r *Reporter) OnBegin(total, workers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary = domain.RunSummary{
		RunID:      uuid.NewString(),
		Total:      total,
		Workers:    workers,
		StartedAt:  time.Now(),
		ReportPath: r.storage.Path(),
	}
	r.logger = r.base.With(zap.String("run_id", r.summary.RunID))

	if err := r.storage.Create(Header); err != nil {
		return fmt.Errorf("initialize report: %w", err)
	}
	r.logger.Info("report initialized", zap.String("path", r.summary.ReportPath), zap.Int("cases", total))
	return nil
}

// OnCaseEnd finalizes a result and appends its row.
// A failed append is fatal for the run.
func (r *Reporter) OnCaseEnd(res domain.Result) (domain.Result, error) {
	res = Finalize(res, r.parser)

	if err := r.storage.Append(Row(res)); err != nil {
		return res, fmt.Errorf("append result %s: %w", res.ID, err)
	}

	r.mu.Lock()
	if res.Passed() {
		r.summary.Passed++
	} else {
		r.summary.Failed++
		r.summary.Failures = append(r.summary.Failures, res)
	}
	r.mu.Unlock()

	r.logger.Debug("case reported",
		zap.String("id", res.ID),
		zap.String("status", string(res.Status)),
		zap.String("remarks", res.Remarks))
	return res, nil
}

// Consume reports every result received until results is closed
func (r *Reporter) Consume(results <-chan domain.Result) error {
	for res := range results {
		if _, err := r.OnCaseEnd(res); err != nil {
			return err
		}
	}
	return nil
}

// OnEnd prints the run status and the report location and returns the summary
func (r *Reporter) OnEnd(interrupted bool) domain.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Duration = time.Since(r.summary.StartedAt)
	switch {
	case interrupted:
		r.summary.Status = domain.RunInterrupted
	case r.summary.Failed > 0:
		r.summary.Status = domain.RunFailed
	default:
		r.summary.Status = domain.RunPassed
	}

	status := strings.ToUpper(string(r.summary.Status))
	if r.summary.Status == domain.RunPassed {
		status = color.GreenString(status)
	} else {
		status = color.RedString(status)
	}
	fmt.Fprintf(r.out, "Test Run Completed: %s\n", status)
	fmt.Fprintf(r.out, "Results saved to: %s\n", r.summary.ReportPath)

	r.logger.Info("run finished",
		zap.String("status", string(r.summary.Status)),
		zap.Int("passed", r.summary.Passed),
		zap.Int("failed", r.summary.Failed),
		zap.Duration("duration", r.summary.Duration))

	summary := r.summary
	summary.Failures = append([]domain.Result(nil), r.summary.Failures...)
	return summary
}

// Finalize derives missing metadata, the actual output and the remarks of a result.
// Only scenario results take their id from the title.
func Finalize(res domain.Result, p parser.Parser) domain.Result {
	if res.ID == "" && res.Kind == domain.KindScenario {
		id, _, _ := strings.Cut(res.Name, ":")
		res.ID = id
	}
	if res.Status == "" {
		res.Status = domain.StatusOf(res.Err)
	}

	if res.ActualOutput == "" && res.Err != nil {
		if actual, ok := p.ExtractActual(res.Err.Error()); ok {
			res.ActualOutput = actual
		}
	}

	res.Remarks = p.Remarks(res, res.ActualOutput)
	return res
}

// Row returns the report fields of a finalized result, in Header order
func Row(res domain.Result) []string {
	return []string{
		res.ID,
		res.Name,
		res.Input,
		res.Expected,
		res.ActualOutput,
		string(res.Status),
		res.Remarks,
		res.Category,
	}
}

// FromRow rebuilds a result from a report row. Missing trailing fields are empty.
func FromRow(row []string) domain.Result {
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return domain.Result{
		ID:           field(0),
		Name:         field(1),
		Input:        field(2),
		Expected:     field(3),
		ActualOutput: field(4),
		Status:       domain.Status(field(5)),
		Remarks:      field(6),
		Category:     field(7),
	}
}

// LoadResults reads back every result of the last report
func LoadResults(st storage.Storage) ([]domain.Result, error) {
	rows, err := st.Load()
	if err != nil {
		return nil, err
	}
	results := make([]domain.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, FromRow(row))
	}
	return results, nil
}

// FailedIDs returns the ids of failed results
func FailedIDs(results []domain.Result) map[string]bool {
	ids := make(map[string]bool)
	for _, res := range results {
		if !res.Passed() {
			ids[res.ID] = true
		}
	}
	return ids
}
