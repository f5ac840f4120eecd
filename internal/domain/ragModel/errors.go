package ragModel

import "fmt"

// ValidationError marks input the caller can fix: blank query, no extractable
// text, zero chunks surviving the length filter, upload constraint violations.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// EmptyContent is the chunker's failure mode: ingestion must never silently
// produce a zero-chunk document.
func EmptyContent(filename string) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf("no usable text content in %q", filename)}
}

// ProviderError wraps an embedding or completion call failure. Never retried
// silently inside the core.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IndexError wraps a persistent store read/write failure.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s failed: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}
