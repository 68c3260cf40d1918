// File model contains the structs which match the on-disk directory records of FAT
// and the decoding of a raw 32-byte slot into one of them.

package fatdir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// EntrySize is the size of every directory slot, short or long.
const EntrySize = 32

// Attributes of a short entry.
const (
	AttrReadOnly  byte = 0x01
	AttrHidden    byte = 0x02
	AttrSystem    byte = 0x04
	AttrVolumeID  byte = 0x08
	AttrDirectory byte = 0x10
	AttrArchive   byte = 0x20

	AttrLongName     = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
	attrLongNameMask = 0x3F
)

// Markers stored in the first name byte.
const (
	markerEndOfDir byte = 0x00
	markerFree     byte = 0xE5
)

const (
	orderLast byte = 0x40
	orderMask byte = 0x3F

	// lfnCharsPerEntry is the count of UCS-2 units stored in one long name record.
	lfnCharsPerEntry = 13
)

var (
	dotName    = [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	dotDotName = [11]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
)

// EntryHeader is the short (8.3) directory entry exactly as it is stored on disk.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// LongFilenameEntry is one VFAT long name record as it is stored on disk.
type LongFilenameEntry struct {
	Sequence  byte
	First     [5]uint16
	Attribute byte
	EntryType byte
	Checksum  byte
	Second    [6]uint16
	Zero      [2]byte
	Third     [2]uint16
}

// Cluster returns the start cluster stored in the split high/low fields.
func (h EntryHeader) Cluster() uint32 {
	return uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO)
}

// SetCluster splits cluster into the high/low fields.
func (h *EntryHeader) SetCluster(cluster uint32) {
	h.FirstClusterHI = uint16(cluster >> 16)
	h.FirstClusterLO = uint16(cluster)
}

func (h EntryHeader) IsDir() bool {
	return h.Attribute&AttrDirectory == AttrDirectory
}

// MarshalBinary encodes the entry into its 32-byte on-disk form.
func (h EntryHeader) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, EntrySize))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders the entry for debug output.
func (h EntryHeader) String() string {
	return fmt.Sprintf("%q attr=%#02x cluster=%d size=%d", string(h.Name[:]), h.Attribute, h.Cluster(), h.FileSize)
}

// order is the 1-based position of this record within its name.
func (l LongFilenameEntry) order() int {
	return int(l.Sequence & orderMask)
}

func (l LongFilenameEntry) isLast() bool {
	return l.Sequence&orderLast == orderLast
}

// chars copies the 13 UCS-2 units of the record into dst.
func (l LongFilenameEntry) chars(dst []uint16) {
	copy(dst[0:5], l.First[:])
	copy(dst[5:11], l.Second[:])
	copy(dst[11:13], l.Third[:])
}

type slotKind uint8

const (
	slotEnd slotKind = iota
	slotFree
	slotLong
	slotShort
)

// slot is a decoded directory slot. Depending on kind either short or long is set.
type slot struct {
	kind  slotKind
	short EntryHeader
	long  LongFilenameEntry
}

func isLongNameAttr(attr byte) bool {
	return attr&attrLongNameMask == AttrLongName
}

// decodeSlot interprets a raw 32-byte record by its marker and attribute bytes.
func decodeSlot(raw []byte) slot {
	raw = raw[:EntrySize]

	switch {
	case raw[0] == markerEndOfDir:
		return slot{kind: slotEnd}
	case raw[0] == markerFree:
		return slot{kind: slotFree}
	case isLongNameAttr(raw[11]):
		return slot{kind: slotLong, long: decodeLong(raw)}
	}
	return slot{kind: slotShort, short: decodeShort(raw)}
}

func decodeShort(raw []byte) EntryHeader {
	le := binary.LittleEndian
	h := EntryHeader{
		Attribute:       raw[11],
		NTReserved:      raw[12],
		CreateTimeTenth: raw[13],
		CreateTime:      le.Uint16(raw[14:]),
		CreateDate:      le.Uint16(raw[16:]),
		LastAccessDate:  le.Uint16(raw[18:]),
		FirstClusterHI:  le.Uint16(raw[20:]),
		WriteTime:       le.Uint16(raw[22:]),
		WriteDate:       le.Uint16(raw[24:]),
		FirstClusterLO:  le.Uint16(raw[26:]),
		FileSize:        le.Uint32(raw[28:]),
	}
	copy(h.Name[:], raw[:11])
	return h
}

func decodeLong(raw []byte) LongFilenameEntry {
	le := binary.LittleEndian
	l := LongFilenameEntry{
		Sequence:  raw[0],
		Attribute: raw[11],
		EntryType: raw[12],
		Checksum:  raw[13],
	}
	for i := range l.First {
		l.First[i] = le.Uint16(raw[1+2*i:])
	}
	for i := range l.Second {
		l.Second[i] = le.Uint16(raw[14+2*i:])
	}
	copy(l.Zero[:], raw[26:28])
	for i := range l.Third {
		l.Third[i] = le.Uint16(raw[28+2*i:])
	}
	return l
}

// shortName renders the packed 11-byte name as "BASE.EXT".
func shortName(name [11]byte) string {
	base := strings.TrimRight(string(name[:8]), " ")
	ext := strings.TrimRight(string(name[8:11]), " ")

	if ext != "" {
		return base + "." + ext
	}
	return base
}

// LongNameChecksum computes the checksum a long name chain stores for its short entry.
func LongNameChecksum(name [11]byte) byte {
	var sum byte
	for _, c := range name {
		sum = (sum>>1 | sum<<7) + c
	}
	return sum
}
