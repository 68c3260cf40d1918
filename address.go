package fatdir

import "fmt"

type addrKind uint8

const (
	addrNone addrKind = iota
	addrCluster
	addrRootSector
)

// Addr names one directory unit. A directory is either a chain of clusters linked
// through the FAT, or, for the FAT12/16 root, a fixed run of sectors without any chain.
// The zero Addr means "no location".
type Addr struct {
	kind  addrKind
	value uint32
}

// ChainCluster addresses a cluster of a FAT-chained directory.
func ChainCluster(cluster uint32) Addr {
	return Addr{kind: addrCluster, value: cluster}
}

// RootSector addresses a sector of the fixed FAT12/16 root region by its absolute
// sector number.
func RootSector(sector uint32) Addr {
	return Addr{kind: addrRootSector, value: sector}
}

func (a Addr) IsZero() bool {
	return a.kind == addrNone
}

// IsRootSector reports whether a addresses a sector of the fixed root region.
func (a Addr) IsRootSector() bool {
	return a.kind == addrRootSector
}

// IsCluster reports whether a addresses a cluster of a chained directory.
func (a Addr) IsCluster() bool {
	return a.kind == addrCluster
}

// Value is the cluster number or the absolute sector, depending on the kind.
func (a Addr) Value() uint32 {
	return a.value
}

func (a Addr) String() string {
	switch a.kind {
	case addrCluster:
		return fmt.Sprintf("cluster %d", a.value)
	case addrRootSector:
		return fmt.Sprintf("root sector %d", a.value)
	}
	return "none"
}

// Location is the position of a 32-byte slot: the unit holding it and the byte offset
// inside that unit.
type Location struct {
	Unit   Addr
	Offset uint32
}

func (l Location) IsZero() bool {
	return l.Unit.IsZero()
}

func (l Location) String() string {
	if l.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%v+%d", l.Unit, l.Offset)
}
