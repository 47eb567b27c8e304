package export

import "fmt"

// ParseError reports a message file that is not valid JSON. The whole file
// is rejected; no partial records are recovered from it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
