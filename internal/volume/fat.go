package volume

import (
	"encoding/binary"
	"syscall"

	"github.com/aligator/fatdir"
	"github.com/aligator/fatdir/checkpoint"
)

func (v *Volume) validCluster(cluster uint32) bool {
	return cluster >= 2 && cluster < v.totalClusters+2
}

// get reads the FAT value of cluster.
func (v *Volume) get(cluster uint32) uint32 {
	switch v.params.Type {
	case fatdir.FAT12:
		offset := cluster + cluster/2
		value := uint32(binary.LittleEndian.Uint16(v.fat[offset:]))
		if cluster&1 == 1 {
			return value >> 4
		}
		return value & 0xFFF
	case fatdir.FAT16:
		return uint32(binary.LittleEndian.Uint16(v.fat[cluster*2:]))
	}
	return binary.LittleEndian.Uint32(v.fat[cluster*4:]) & 0x0FFFFFFF
}

// set stores value, truncated to the entry width, as FAT value of cluster.
func (v *Volume) set(cluster, value uint32) {
	switch v.params.Type {
	case fatdir.FAT12:
		offset := cluster + cluster/2
		old := binary.LittleEndian.Uint16(v.fat[offset:])
		value &= 0xFFF
		if cluster&1 == 1 {
			old = old&0x000F | uint16(value)<<4
		} else {
			old = old&0xF000 | uint16(value)
		}
		binary.LittleEndian.PutUint16(v.fat[offset:], old)
	case fatdir.FAT16:
		binary.LittleEndian.PutUint16(v.fat[cluster*2:], uint16(value))
	default:
		// The top 4 bits are reserved and must be kept.
		old := binary.LittleEndian.Uint32(v.fat[cluster*4:])
		binary.LittleEndian.PutUint32(v.fat[cluster*4:], old&0xF0000000|value&0x0FFFFFFF)
	}
	v.fatDirty = true
}

// Next returns the FAT value of cluster.
func (v *Volume) Next(cluster uint32) (uint32, error) {
	if !v.validCluster(cluster) {
		return 0, checkpoint.Wrapf(syscall.EINVAL, ErrInvalidCluster, "cluster %d", cluster)
	}
	return v.get(cluster), nil
}

// IsEndOfChain reports whether value terminates a chain.
func (v *Volume) IsEndOfChain(value uint32) bool {
	switch v.params.Type {
	case fatdir.FAT12:
		return value >= 0xFF8
	case fatdir.FAT16:
		return value >= 0xFFF8
	}
	return value&0x0FFFFFFF >= 0x0FFFFFF8
}

// Link stores next as the FAT value of cluster.
func (v *Volume) Link(cluster, next uint32) error {
	if !v.validCluster(cluster) {
		return checkpoint.Wrapf(syscall.EINVAL, ErrInvalidCluster, "cluster %d", cluster)
	}
	v.set(cluster, next)
	return nil
}

// Allocate reserves the next free cluster and marks it as end of chain.
func (v *Volume) Allocate() (uint32, error) {
	end := v.totalClusters + 2
	for i := uint32(0); i < v.totalClusters; i++ {
		cluster := v.nextFree + i
		if cluster >= end {
			cluster -= v.totalClusters
		}
		if v.get(cluster) != fatdir.FreeCluster {
			continue
		}

		v.set(cluster, fatdir.EndOfChainMark)
		v.nextFree = cluster + 1
		if v.nextFree >= end {
			v.nextFree = 2
		}
		return cluster, nil
	}
	return 0, checkpoint.Wrap(syscall.ENOSPC, ErrNoSpace)
}

// FreeChain releases every cluster of the chain starting at start.
func (v *Volume) FreeChain(start uint32) error {
	cluster := start
	for i := uint32(0); i < v.totalClusters; i++ {
		if !v.validCluster(cluster) {
			return checkpoint.Wrapf(syscall.EINVAL, ErrInvalidCluster, "cluster %d in chain of %d", cluster, start)
		}
		next := v.get(cluster)
		v.set(cluster, fatdir.FreeCluster)
		delete(v.units, fatdir.ChainCluster(cluster))

		if v.IsEndOfChain(next) || next == fatdir.FreeCluster {
			return nil
		}
		cluster = next
	}
	return checkpoint.Wrapf(syscall.ELOOP, ErrInvalidCluster, "chain of %d does not end", start)
}
