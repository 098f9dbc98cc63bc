package collector

import (
	"errors"
	"fmt"
)

// Reasons a document could not be read.
const (
	ReasonOpen      = "open"
	ReasonDecode    = "decode"
	ReasonEncrypted = "encrypted"
	ReasonPreflight = "preflight"
)

// DocumentReadError reports a PDF that could not be opened or decoded.
type DocumentReadError struct {
	Path   string
	Reason string
	Page   int // 0 when the whole document failed
	Err    error
}

func (e *DocumentReadError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("read %s: %s page %d: %v", e.Path, e.Reason, e.Page, e.Err)
	}
	return fmt.Sprintf("read %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *DocumentReadError) Unwrap() error { return e.Err }

// IsReadError reports whether err came from reading a document rather than
// from processing it.
func IsReadError(err error) bool {
	var re *DocumentReadError
	return errors.As(err, &re)
}
