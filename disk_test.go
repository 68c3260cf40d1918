package fatdir

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
	"unicode/utf16"
)

// memDisk keeps directory units and a FAT in memory. It implements UnitIO and FAT.
type memDisk struct {
	params Params
	units  map[Addr][]byte
	dirty  map[Addr]bool
	fat    []uint32
}

var errDiskFull = errors.New("disk full")

func newMemDisk(params Params, clusters int) *memDisk {
	return &memDisk{
		params: params,
		units:  make(map[Addr][]byte),
		dirty:  make(map[Addr]bool),
		fat:    make([]uint32, clusters+2),
	}
}

// fat16Params describes a FAT16 volume with a two sector root region (32 entries).
func fat16Params() Params {
	return Params{
		Type:              FAT16,
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		NumFATs:           2,
		FATSize:           1,
		ReservedSectors:   1,
		RootEntries:       32,
	}
}

// fat32Params describes a FAT32 volume with 512 byte clusters and root at cluster 2.
func fat32Params() Params {
	return Params{
		Type:              FAT32,
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		NumFATs:           2,
		FATSize:           1,
		ReservedSectors:   32,
		RootCluster:       2,
	}
}

func (d *memDisk) size(unit Addr) int {
	if unit.IsRootSector() {
		return int(d.params.BytesPerSector)
	}
	return d.params.ClusterSize()
}

func (d *memDisk) ReadUnit(unit Addr) ([]byte, error) {
	if unit.IsCluster() && (unit.Value() < 2 || int(unit.Value()) >= len(d.fat)) {
		return nil, errors.New("cluster out of range")
	}
	buf, ok := d.units[unit]
	if !ok {
		buf = make([]byte, d.size(unit))
		d.units[unit] = buf
	}
	return buf, nil
}

func (d *memDisk) MarkDirty(unit Addr) {
	d.dirty[unit] = true
}

func (d *memDisk) ClearUnit(unit Addr) ([]byte, error) {
	buf := make([]byte, d.size(unit))
	d.units[unit] = buf
	return buf, nil
}

func (d *memDisk) Next(cluster uint32) (uint32, error) {
	if int(cluster) >= len(d.fat) {
		return 0, errors.New("cluster out of range")
	}
	return d.fat[cluster], nil
}

func (d *memDisk) IsEndOfChain(value uint32) bool {
	return value >= 0x0FFFFFF8
}

func (d *memDisk) Link(cluster, next uint32) error {
	d.fat[cluster] = next
	return nil
}

func (d *memDisk) Allocate() (uint32, error) {
	for i := 2; i < len(d.fat); i++ {
		if d.fat[i] == FreeCluster {
			d.fat[i] = EndOfChainMark
			return uint32(i), nil
		}
	}
	return 0, errDiskFull
}

// chain links the given clusters in order and terminates the chain.
func (d *memDisk) chain(clusters ...uint32) {
	for i, c := range clusters {
		if i+1 < len(clusters) {
			d.fat[c] = clusters[i+1]
		} else {
			d.fat[c] = EndOfChainMark
		}
	}
}

// slotAt returns the location of the i-th slot of the directory starting at dir.
func (d *memDisk) slotAt(dir Addr, i int) Location {
	per := d.params.entriesPerUnit(dir)
	unit := dir
	for ; i >= per; i -= per {
		if unit.IsRootSector() {
			unit = RootSector(unit.Value() + 1)
			continue
		}
		unit = ChainCluster(d.fat[unit.Value()])
	}
	return Location{Unit: unit, Offset: uint32(i * EntrySize)}
}

// write stores raw slots into the directory starting at dir, beginning at slot i.
func (d *memDisk) write(dir Addr, i int, slots ...[]byte) {
	for n, raw := range slots {
		loc := d.slotAt(dir, i+n)
		buf, _ := d.ReadUnit(loc.Unit)
		copy(buf[loc.Offset:], raw)
	}
}

// raw returns the stored bytes of the slot at loc.
func (d *memDisk) raw(loc Location) []byte {
	buf, _ := d.ReadUnit(loc.Unit)
	return buf[loc.Offset : loc.Offset+EntrySize]
}

func testingNew(t *testing.T, d *memDisk, opts ...Option) *Fs {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time {
		return time.Date(2021, time.March, 14, 15, 9, 27, 0, time.UTC)
	})}, opts...)

	fs, err := New(d.params, d, d, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return fs
}

func shortSlot(name string, attr byte, cluster uint32) []byte {
	h := EntryHeader{Name: NormalizeShort(name), Attribute: attr}
	if packed, ok := dotEntryName(name); ok {
		h.Name = packed
	}
	h.SetCluster(cluster)
	raw, _ := h.MarshalBinary()
	return raw
}

func freeSlot() []byte {
	raw := make([]byte, EntrySize)
	raw[0] = markerFree
	return raw
}

// longSlots builds the long name chain of name for the short entry short in storage
// order, i.e. the record with the highest order number first.
func longSlots(name string, short [11]byte) [][]byte {
	units := utf16.Encode([]rune(name))
	count := (len(units) + lfnCharsPerEntry - 1) / lfnCharsPerEntry
	if len(units)%lfnCharsPerEntry != 0 {
		units = append(units, 0)
	}
	for len(units) < count*lfnCharsPerEntry {
		units = append(units, 0xFFFF)
	}

	checksum := LongNameChecksum(short)
	slots := make([][]byte, 0, count)
	for order := count; order >= 1; order-- {
		chars := units[(order-1)*lfnCharsPerEntry : order*lfnCharsPerEntry]

		raw := make([]byte, EntrySize)
		raw[0] = byte(order)
		if order == count {
			raw[0] |= orderLast
		}
		for i := 0; i < 5; i++ {
			binary.LittleEndian.PutUint16(raw[1+2*i:], chars[i])
		}
		raw[11] = AttrLongName
		raw[13] = checksum
		for i := 0; i < 6; i++ {
			binary.LittleEndian.PutUint16(raw[14+2*i:], chars[5+i])
		}
		for i := 0; i < 2; i++ {
			binary.LittleEndian.PutUint16(raw[28+2*i:], chars[11+i])
		}
		slots = append(slots, raw)
	}
	return slots
}

// withShort appends the short entry to a long name chain.
func withShort(name string, short string, attr byte, cluster uint32) [][]byte {
	return append(longSlots(name, NormalizeShort(short)), shortSlot(short, attr, cluster))
}
