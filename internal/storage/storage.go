package storage

// Storage persists report rows and reads back the last report (e.g. for the faills viewer).
type Storage interface {
	// Create truncates the report and writes the header line.
	Create(header []string) error
	// Append writes one complete row as a single line.
	Append(row []string) error
	// Load reads every data row of the last report.
	Load() ([][]string, error)
	// Path returns the report location.
	Path() string
}
