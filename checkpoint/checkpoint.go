// Package checkpoint decorates errors with the place they passed through, which gives
// something similar to a stacktrace for errors crossing the directory layer.
// Both the classifying error of a checkpoint and the error it wraps can be checked with
// errors.Is and retrieved with errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err into a checkpoint carrying only the caller information.
// It returns nil if err == nil.
func From(err error) error {
	// io.EOF must stay io.EOF.
	// https://github.com/golang/go/issues/39155
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(err, nil, "")
}

// Wrap adds a checkpoint on top of prev which is classified by err.
// Returns nil if prev == nil. If err is nil, the checkpoint is still created.
//
// That way predefined sentinel errors can be used to classify any error:
//  var ErrIO = errors.New("i/o failure")
//  func read() error {
//  	err := device.Read(buf)
//  	return checkpoint.Wrap(err, ErrIO)
//  }
// Afterwards errors.Is(err, ErrIO) is true but the error returned by the device is
// also still reachable through errors.Is and errors.As.
func Wrap(prev, err error) error {
	if prev == io.EOF {
		return io.EOF
	}
	if prev == nil {
		return nil
	}

	return newCheckpoint(prev, err, "")
}

// Wrapf works like Wrap but additionally stores a formatted detail, e.g. the location
// at which the failure happened.
func Wrapf(prev, err error, format string, args ...interface{}) error {
	if prev == io.EOF {
		return io.EOF
	}
	if prev == nil {
		return nil
	}

	return newCheckpoint(prev, err, fmt.Sprintf(format, args...))
}

// newCheckpoint must be called directly by the exported functions as it skips exactly
// two frames to find their caller.
func newCheckpoint(prev, err error, detail string) *checkpoint {
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:    err,
		prev:   prev,
		detail: detail,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err    error
	prev   error
	detail string

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) Error() string {
	var b strings.Builder

	if e.callerOk {
		fmt.Fprintf(&b, "%s:%d: ", e.file, e.line)
	} else {
		b.WriteString("unknown: ")
	}

	if e.err != nil {
		b.WriteString(e.err.Error())
		if e.detail != "" {
			b.WriteString(" (" + e.detail + ")")
		}
	} else if e.detail != "" {
		b.WriteString(e.detail)
	}

	// From() has no classifying error, so the previous one is the whole message.
	if e.err == nil && e.detail == "" {
		b.WriteString(e.prev.Error())
		return b.String()
	}

	b.WriteString("\n\t")
	b.WriteString(strings.ReplaceAll(e.prev.Error(), "\n", "\n\t"))
	return b.String()
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	if e.err == nil {
		return false
	}
	return errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	if e.err == nil {
		return false
	}
	return errors.As(e.err, target)
}
