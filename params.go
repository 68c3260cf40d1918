package fatdir

import (
	"errors"
	"fmt"
)

// FSType is the FAT variant of a volume.
type FSType uint8

const (
	FAT12 FSType = iota
	FAT16
	FAT32
)

func (t FSType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	}
	return fmt.Sprintf("FSType(%d)", uint8(t))
}

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid filesystem parameters")

// Params is the parameter block read from the boot sector. The directory layer only
// reads it.
type Params struct {
	Type              FSType
	BytesPerSector    uint16
	SectorsPerCluster uint8
	NumFATs           uint8
	// FATSize is the size of one FAT in sectors.
	FATSize         uint32
	ReservedSectors uint16

	// RootCluster is the first cluster of the root directory on FAT32.
	RootCluster uint32
	// RootEntries is the entry count of the fixed root region on FAT12/16.
	RootEntries uint16
}

// Validate checks that the block describes a layout the directory layer can walk.
func (p Params) Validate() error {
	switch {
	case p.Type > FAT32:
		return fmt.Errorf("%w: unknown type %v", ErrInvalidParams, p.Type)
	case p.BytesPerSector == 0 || p.BytesPerSector%EntrySize != 0:
		return fmt.Errorf("%w: sector size %d", ErrInvalidParams, p.BytesPerSector)
	case p.SectorsPerCluster == 0:
		return fmt.Errorf("%w: zero sectors per cluster", ErrInvalidParams)
	case p.Type == FAT32 && p.RootCluster < 2:
		return fmt.Errorf("%w: root cluster %d", ErrInvalidParams, p.RootCluster)
	case p.Type != FAT32 && p.RootEntries == 0:
		return fmt.Errorf("%w: no root directory entries", ErrInvalidParams)
	}
	return nil
}

// ClusterSize is the size of one cluster in bytes.
func (p Params) ClusterSize() int {
	return int(p.BytesPerSector) * int(p.SectorsPerCluster)
}

// RootDirSector is the first sector of the fixed FAT12/16 root region.
func (p Params) RootDirSector() uint32 {
	return uint32(p.ReservedSectors) + uint32(p.NumFATs)*p.FATSize
}

// RootAddr is the first unit of the root directory.
func (p Params) RootAddr() Addr {
	if p.Type == FAT32 {
		return ChainCluster(p.RootCluster)
	}
	return RootSector(p.RootDirSector())
}

// entriesPerUnit is the count of slots in one unit of the given kind.
func (p Params) entriesPerUnit(a Addr) int {
	if a.IsRootSector() {
		return int(p.BytesPerSector) / EntrySize
	}
	return p.ClusterSize() / EntrySize
}
