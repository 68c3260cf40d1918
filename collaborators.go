package fatdir

// FreeCluster is the FAT value of an unused cluster.
const FreeCluster uint32 = 0

// EndOfChainMark terminates a chain. FAT implementations truncate it to their entry width.
const EndOfChainMark uint32 = 0x0FFFFFFF

// UnitIO reads and writes whole directory units, i.e. clusters of chained directories
// and single sectors of the fixed FAT12/16 root region.
// Buffers returned stay valid and writable until the unit is evicted by the
// implementation; modifications become persistent once the unit is marked dirty.
// Generated mock using mockgen:
//  mockgen -source=collaborators.go -destination=collaborators_mock.go -package fatdir
type UnitIO interface {
	ReadUnit(unit Addr) ([]byte, error)
	MarkDirty(unit Addr)
	// ClearUnit zeroes the unit and returns its buffer.
	ClearUnit(unit Addr) ([]byte, error)
}

// FAT gives access to the cluster chains.
type FAT interface {
	// Next returns the FAT value stored for cluster.
	Next(cluster uint32) (uint32, error)
	IsEndOfChain(value uint32) bool
	// Link stores next as the FAT value of cluster.
	Link(cluster, next uint32) error
	// Allocate reserves a free cluster and marks it as end of chain.
	Allocate() (uint32, error)
}

// Charset converts query names into UCS-2 and folds their case.
type Charset interface {
	ToUCS2(name string) ([]uint16, error)
	// ToLower folds the case of s in place.
	ToLower(s []uint16)
}
