package errs

import (
	"errors"
	"fmt"
)

// ErrorWithCode carries the HTTP status a handler should answer with.
type ErrorWithCode struct {
	err  string
	Code int
}

func (e ErrorWithCode) Error() string {
	return e.err
}

func NewErrorWithCode(err string, code int) error {
	return ErrorWithCode{err: err, Code: code}
}

func NewErrorfWithCode(code int, format string, args ...any) error {
	return ErrorWithCode{err: fmt.Sprintf(format, args...), Code: code}
}

// Code returns the status attached to err, or def when there is none.
func Code(err error, def int) int {
	var ewc ErrorWithCode
	if errors.As(err, &ewc) {
		return ewc.Code
	}
	return def
}
