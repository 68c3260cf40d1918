package fatdir

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/aligator/fatdir/checkpoint"
)

// These errors classify every failure of the directory layer. Use errors.Is to check
// for them; the underlying cause stays reachable the same way.
var (
	// ErrNotFound is a normal outcome for existence checks.
	ErrNotFound      = errors.New("no such directory entry")
	ErrNotADirectory = errors.New("not a directory")
	ErrOutOfSpace    = errors.New("no space left in directory")
	ErrNameTooLong   = errors.New("name too long for this operation")
	ErrInvalidName   = errors.New("invalid entry name")
	ErrIO            = errors.New("directory i/o failure")
	// ErrCorrupt also matches ErrIO.
	ErrCorrupt = fmt.Errorf("%w: corrupt directory structure", ErrIO)
)

func errNotFound(name string) error {
	return checkpoint.Wrapf(syscall.ENOENT, ErrNotFound, "%q", name)
}

func errNotADirectory(name string) error {
	return checkpoint.Wrapf(syscall.ENOTDIR, ErrNotADirectory, "%q", name)
}

func errCorrupt(at Location, format string, args ...interface{}) error {
	return checkpoint.Wrapf(syscall.EIO, ErrCorrupt, "%v: "+format, append([]interface{}{at}, args...)...)
}

func errIO(err error, unit Addr) error {
	return checkpoint.Wrapf(err, ErrIO, "%v", unit)
}
