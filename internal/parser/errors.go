package parser

import "fmt"

// IngestError wraps a reader failure with the file and format it came from.
type IngestError struct {
	Name   string
	Format Format
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s (%s): %v", e.Name, e.Format, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
