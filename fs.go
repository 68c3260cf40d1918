// Package fatdir implements the directory layer of FAT12/16/32 volumes: path
// resolution, short and VFAT long name lookup, and creation and erasure of directory
// entries working directly on the raw directory units.
//
// An Fs performs no locking. Callers must serialize all operations on one volume.
package fatdir

import (
	"io"
	"time"

	"github.com/aligator/fatdir/internal/ucs2"
	"github.com/sirupsen/logrus"
)

// Fs is the directory layer of one mounted volume.
type Fs struct {
	params Params
	units  UnitIO
	fat    FAT

	charset        Charset
	log            logrus.FieldLogger
	now            func() time.Time
	strictChecksum bool
}

// Option configures an Fs.
type Option func(fs *Fs)

// WithLogger sets the logger used to report failures and mutations.
func WithLogger(log logrus.FieldLogger) Option {
	return func(fs *Fs) {
		fs.log = log
	}
}

// WithCharset replaces the UCS-2 conversion and case folding used for long names.
func WithCharset(charset Charset) Option {
	return func(fs *Fs) {
		fs.charset = charset
	}
}

// WithClock sets the wall-clock source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(fs *Fs) {
		fs.now = now
	}
}

// WithStrictChecksum makes long name lookups reject chains whose checksum does not
// belong to the short entry following them. It is off by default, in which case the
// checksum is never computed, so images written with wrong checksums stay readable.
func WithStrictChecksum(strict bool) Option {
	return func(fs *Fs) {
		fs.strictChecksum = strict
	}
}

// New creates the directory layer for a volume described by params.
func New(params Params, units UnitIO, fat FAT, opts ...Option) (*Fs, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	silent := logrus.New()
	silent.SetOutput(io.Discard)

	fs := &Fs{
		params:  params,
		units:   units,
		fat:     fat,
		charset: ucs2.Latin{},
		log:     silent,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(fs)
	}

	return fs, nil
}

// Params returns the parameter block of the volume.
func (fs *Fs) Params() Params {
	return fs.params
}

// RootEntry synthesizes the directory entry of the volume root, which has no entry
// of its own on disk.
func (fs *Fs) RootEntry() Entry {
	e := Entry{start: fs.params.RootAddr()}
	e.Attribute = AttrDirectory
	if fs.params.Type == FAT32 {
		e.SetCluster(fs.params.RootCluster)
	}
	return e
}

// Entry is a short directory entry together with the unit its data starts at.
type Entry struct {
	EntryHeader
	start Addr
}

// Start is the first unit of the entry's data. For directories this is where their
// own entries are stored.
func (e Entry) Start() Addr {
	return e.start
}

// entryFrom decodes a short entry found on disk. A directory pointing at cluster 0
// (".." of a first-level directory) refers to the root.
func (fs *Fs) entryFrom(h EntryHeader) Entry {
	if h.Cluster() == 0 && h.IsDir() {
		return Entry{EntryHeader: h, start: fs.params.RootAddr()}
	}
	return Entry{EntryHeader: h, start: ChainCluster(h.Cluster())}
}

func (fs *Fs) logUnitError(err error, unit Addr, msg string) {
	fs.log.WithError(err).WithField("unit", unit.String()).Error(msg)
}
