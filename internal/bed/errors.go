package bed

import "fmt"

// FormatError reports a BED12 line that does not parse or whose coordinates
// are inconsistent.
type FormatError struct {
	Path    string // empty for non-file readers
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bed format error at %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("bed format error at line %d: %s", e.Line, e.Message)
}

// RecordError returns a FormatError for an already parsed record.
func RecordError(r *Record, format string, args ...any) *FormatError {
	return &FormatError{
		Line:    r.Line,
		Message: fmt.Sprintf("%s: %s", r.Name, fmt.Sprintf(format, args...)),
	}
}
