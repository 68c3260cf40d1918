// Package volume provides the unit I/O and FAT access the directory layer needs, on
// top of a FAT image file.
package volume

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aligator/fatdir"
	"github.com/aligator/fatdir/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while accessing the image.
var (
	ErrReadUnit       = errors.New("could not read unit")
	ErrWriteUnit      = errors.New("could not write unit")
	ErrInvalidUnit    = errors.New("unit outside of the volume")
	ErrInvalidCluster = errors.New("cluster outside of the volume")
	ErrNoSpace        = errors.New("no free cluster")
)

type unit struct {
	buffer []byte
	dirty  bool
}

// Volume is an opened FAT image. It caches every unit it reads until Flush.
type Volume struct {
	file afero.File
	layout

	units map[fatdir.Addr]*unit

	// fat is the first FAT, kept in memory and written to every copy on Flush.
	fat      []byte
	fatDirty bool
	// nextFree is where the search for a free cluster starts.
	nextFree uint32
}

// Open reads the boot sector and the FAT of the image in file.
func Open(file afero.File) (*Volume, error) {
	// The BPB is always within the first 512 bytes, whatever the sector size is.
	sector := make([]byte, 512)
	if _, err := file.ReadAt(sector, 0); err != nil {
		return nil, checkpoint.Wrap(err, ErrNoFAT)
	}

	l, err := parseBootSector(sector)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	v := &Volume{
		file:     file,
		layout:   l,
		units:    make(map[fatdir.Addr]*unit),
		nextFree: 2,
	}

	v.fat = make([]byte, int(l.params.FATSize)*int(l.params.BytesPerSector))
	if _, err := file.ReadAt(v.fat, v.sectorOffset(uint32(l.params.ReservedSectors))); err != nil && err != io.EOF {
		return nil, checkpoint.Wrap(err, ErrReadUnit)
	}

	return v, nil
}

// Params returns the parameter block of the volume.
func (v *Volume) Params() fatdir.Params {
	return v.params
}

func (v *Volume) sectorOffset(sector uint32) int64 {
	return int64(sector) * int64(v.params.BytesPerSector)
}

// locate returns the byte range of a unit inside the image.
func (v *Volume) locate(a fatdir.Addr) (int64, int, error) {
	switch {
	case a.IsRootSector():
		first := v.params.RootDirSector()
		if a.Value() < first || a.Value() >= v.firstDataSector {
			return 0, 0, checkpoint.Wrapf(ErrInvalidUnit, ErrReadUnit, "%v", a)
		}
		return v.sectorOffset(a.Value()), int(v.params.BytesPerSector), nil
	case a.IsCluster():
		if !v.validCluster(a.Value()) {
			return 0, 0, checkpoint.Wrapf(ErrInvalidCluster, ErrReadUnit, "%v", a)
		}
		sector := v.firstDataSector + (a.Value()-2)*uint32(v.params.SectorsPerCluster)
		return v.sectorOffset(sector), v.params.ClusterSize(), nil
	}
	return 0, 0, checkpoint.Wrapf(ErrInvalidUnit, ErrReadUnit, "%v", a)
}

// ReadUnit returns the cached buffer of the unit, reading it first if needed.
func (v *Volume) ReadUnit(a fatdir.Addr) ([]byte, error) {
	if u, ok := v.units[a]; ok {
		return u.buffer, nil
	}

	offset, size, err := v.locate(a)
	if err != nil {
		return nil, err
	}

	buffer := make([]byte, size)
	// A sparse image may end before its last units, which then read as zero.
	if _, err := v.file.ReadAt(buffer, offset); err != nil && err != io.EOF {
		return nil, checkpoint.Wrapf(err, ErrReadUnit, "%v", a)
	}

	v.units[a] = &unit{buffer: buffer}
	return buffer, nil
}

// MarkDirty schedules the unit to be written by the next Flush.
func (v *Volume) MarkDirty(a fatdir.Addr) {
	if u, ok := v.units[a]; ok {
		u.dirty = true
	}
}

// ClearUnit zeroes the unit without reading it.
func (v *Volume) ClearUnit(a fatdir.Addr) ([]byte, error) {
	_, size, err := v.locate(a)
	if err != nil {
		return nil, err
	}

	u, ok := v.units[a]
	if !ok {
		u = &unit{buffer: make([]byte, size)}
		v.units[a] = u
	}
	for i := range u.buffer {
		u.buffer[i] = 0
	}
	u.dirty = true
	return u.buffer, nil
}

// Flush writes all dirty units and the FAT, to every FAT copy, back to the image.
func (v *Volume) Flush() error {
	addrs := make([]fatdir.Addr, 0, len(v.units))
	for a, u := range v.units {
		if u.dirty {
			addrs = append(addrs, a)
		}
	}
	// Write in image order.
	sort.Slice(addrs, func(i, j int) bool {
		oi, _, _ := v.locate(addrs[i])
		oj, _, _ := v.locate(addrs[j])
		return oi < oj
	})

	for _, a := range addrs {
		offset, _, err := v.locate(a)
		if err != nil {
			return err
		}
		if _, err := v.file.WriteAt(v.units[a].buffer, offset); err != nil {
			return checkpoint.Wrapf(err, ErrWriteUnit, "%v", a)
		}
		v.units[a].dirty = false
	}

	if !v.fatDirty {
		return nil
	}
	for i := uint32(0); i < uint32(v.params.NumFATs); i++ {
		sector := uint32(v.params.ReservedSectors) + i*v.params.FATSize
		if _, err := v.file.WriteAt(v.fat, v.sectorOffset(sector)); err != nil {
			return checkpoint.Wrapf(err, ErrWriteUnit, "FAT %d", i)
		}
	}
	v.fatDirty = false
	return nil
}

func (v *Volume) String() string {
	return fmt.Sprintf("%v volume, %d clusters of %d bytes", v.params.Type, v.totalClusters, v.params.ClusterSize())
}
