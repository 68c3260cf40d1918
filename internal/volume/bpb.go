package volume

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aligator/fatdir"
)

// ErrNoFAT is returned if the boot sector does not describe a FAT volume.
var ErrNoFAT = errors.New("not a FAT filesystem")

// BPB is the BIOS parameter block at the start of the boot sector.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// FAT32SpecificData is the FAT32 extension of the BPB.
type FAT32SpecificData struct {
	FATSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// Cluster count limits deciding between FAT12 and FAT16.
const (
	maxClustersFAT12 = 4084
	maxClustersFAT16 = 65524
)

// layout is everything derived from the BPB.
type layout struct {
	params          fatdir.Params
	firstDataSector uint32
	totalClusters   uint32
}

// parseBootSector reads and checks the BPB. FAT32 is recognized by the missing 16 bit
// FAT size, FAT12 and FAT16 by their count of clusters.
func parseBootSector(sector []byte) (layout, error) {
	bpb := BPB{}
	if err := binary.Read(bytes.NewReader(sector), binary.LittleEndian, &bpb); err != nil {
		return layout{}, err
	}

	// Check for valid jump instructions.
	if !(bpb.BSJumpBoot[0] == 0xEB && bpb.BSJumpBoot[2] == 0x90) && bpb.BSJumpBoot[0] != 0xE9 {
		return layout{}, fmt.Errorf("%w: no valid jump instructions at the beginning", ErrNoFAT)
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch bpb.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return layout{}, fmt.Errorf("%w: invalid sector size %d", ErrNoFAT, bpb.BytesPerSector)
	}

	// Sectors per cluster has to be a power of two and the cluster at most 32K.
	spc := bpb.SectorsPerCluster
	if spc == 0 || spc&(spc-1) != 0 || int(bpb.BytesPerSector)*int(spc) > 32*1024 {
		return layout{}, fmt.Errorf("%w: invalid sectors per cluster %d", ErrNoFAT, spc)
	}

	if bpb.ReservedSectorCount == 0 {
		return layout{}, fmt.Errorf("%w: invalid reserved sector count", ErrNoFAT)
	}

	if bpb.NumFATs == 0 {
		return layout{}, fmt.Errorf("%w: no FAT", ErrNoFAT)
	}

	if bpb.Media != 0xF0 && bpb.Media < 0xF8 {
		return layout{}, fmt.Errorf("%w: invalid media value %#x", ErrNoFAT, bpb.Media)
	}

	totalSectors := uint32(bpb.TotalSectors16)
	if totalSectors == 0 {
		totalSectors = bpb.TotalSectors32
	}

	p := fatdir.Params{
		BytesPerSector:    bpb.BytesPerSector,
		SectorsPerCluster: spc,
		NumFATs:           bpb.NumFATs,
		FATSize:           uint32(bpb.FATSize16),
		ReservedSectors:   bpb.ReservedSectorCount,
		RootEntries:       bpb.RootEntryCount,
	}

	if bpb.FATSize16 == 0 {
		fat32 := FAT32SpecificData{}
		if err := binary.Read(bytes.NewReader(bpb.FATSpecificData[:]), binary.LittleEndian, &fat32); err != nil {
			return layout{}, err
		}
		if bpb.RootEntryCount != 0 || fat32.FATSize == 0 {
			return layout{}, fmt.Errorf("%w: inconsistent FAT32 parameters", ErrNoFAT)
		}
		p.Type = fatdir.FAT32
		p.FATSize = fat32.FATSize
		p.RootCluster = fat32.RootCluster
	}

	rootDirSectors := (uint32(p.RootEntries)*fatdir.EntrySize + uint32(p.BytesPerSector) - 1) / uint32(p.BytesPerSector)
	firstData := p.RootDirSector() + rootDirSectors
	if totalSectors <= firstData {
		return layout{}, fmt.Errorf("%w: no data region", ErrNoFAT)
	}
	clusters := (totalSectors - firstData) / uint32(spc)

	if p.Type != fatdir.FAT32 {
		p.Type = fatdir.FAT16
		if clusters <= maxClustersFAT12 {
			p.Type = fatdir.FAT12
		} else if clusters > maxClustersFAT16 {
			return layout{}, fmt.Errorf("%w: too many clusters for FAT16", ErrNoFAT)
		}
	}

	if err := p.Validate(); err != nil {
		return layout{}, err
	}

	// The FAT has to be able to hold an entry for every cluster.
	entries := clusters + 2
	var fatBytes uint32
	switch p.Type {
	case fatdir.FAT12:
		fatBytes = entries + entries/2 + entries&1
	case fatdir.FAT16:
		fatBytes = entries * 2
	default:
		fatBytes = entries * 4
	}
	if p.FATSize*uint32(p.BytesPerSector) < fatBytes {
		return layout{}, fmt.Errorf("%w: FAT too small for %d clusters", ErrNoFAT, clusters)
	}

	return layout{
		params:          p,
		firstDataSector: firstData,
		totalClusters:   clusters,
	}, nil
}
