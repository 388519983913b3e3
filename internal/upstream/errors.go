package upstream

import (
	"fmt"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

// Error is returned for every failed upstream fetch. Network failures,
// non-2xx statuses and malformed bodies all surface as this one type; the
// relay treats each of them as recoverable.
type Error struct {
	Kind       model.DataKind
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind model.DataKind, status int, err error) *Error {
	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    err.Error(),
		Err:        err,
	}
}
