package volume

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/aligator/fatdir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testImages describes one small image of every FAT type.
var testImages = map[fatdir.FSType]func() BPB{
	fatdir.FAT12: func() BPB {
		return BPB{
			BytesPerSector:      512,
			SectorsPerCluster:   1,
			ReservedSectorCount: 1,
			NumFATs:             2,
			RootEntryCount:      16,
			TotalSectors16:      64,
			Media:               0xF8,
			FATSize16:           1,
		}
	},
	fatdir.FAT16: func() BPB {
		return BPB{
			BytesPerSector:      512,
			SectorsPerCluster:   1,
			ReservedSectorCount: 1,
			NumFATs:             2,
			RootEntryCount:      512,
			TotalSectors16:      8192,
			Media:               0xF8,
			FATSize16:           33,
		}
	},
	fatdir.FAT32: func() BPB {
		bpb := BPB{
			BytesPerSector:      512,
			SectorsPerCluster:   1,
			ReservedSectorCount: 32,
			NumFATs:             2,
			TotalSectors32:      2048,
			Media:               0xF8,
		}
		setFAT32Data(&bpb, FAT32SpecificData{FATSize: 16, RootCluster: 2})
		return bpb
	},
}

func setFAT32Data(bpb *BPB, data FAT32SpecificData) {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		panic(err)
	}
	copy(bpb.FATSpecificData[:], buf.Bytes())
}

func bootSector(t *testing.T, bpb BPB) []byte {
	t.Helper()
	bpb.BSJumpBoot = [3]byte{0xEB, 0x3C, 0x90}
	copy(bpb.BSOEMName[:], "FATDIR  ")

	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, bpb))

	sector := make([]byte, 512)
	copy(sector, buf.Bytes())
	sector[510], sector[511] = 0x55, 0xAA
	return sector
}

// rawImage creates a zeroed memory file of the size the BPB declares, containing
// only the boot sector.
func rawImage(t *testing.T, bpb BPB) afero.File {
	t.Helper()

	file, err := afero.NewMemMapFs().Create("image")
	require.NoError(t, err)

	total := int64(bpb.TotalSectors16)
	if total == 0 {
		total = int64(bpb.TotalSectors32)
	}
	if bpb.BytesPerSector != 0 {
		require.NoError(t, file.Truncate(total*int64(bpb.BytesPerSector)))
	}

	_, err = file.WriteAt(bootSector(t, bpb), 0)
	require.NoError(t, err)
	return file
}

// newImage writes a freshly formatted image of the given BPB into a memory file.
func newImage(t *testing.T, bpb BPB) afero.File {
	t.Helper()
	file := rawImage(t, bpb)

	// Reserved FAT entries and the FAT32 root chain.
	v, err := Open(file)
	require.NoError(t, err)
	v.set(0, 0x0FFFFF00|uint32(bpb.Media))
	v.set(1, fatdir.EndOfChainMark)
	if v.params.Type == fatdir.FAT32 {
		v.set(v.params.RootCluster, fatdir.EndOfChainMark)
	}
	require.NoError(t, v.Flush())

	return file
}

func openImage(t *testing.T, typ fatdir.FSType) (*Volume, afero.File) {
	t.Helper()
	file := newImage(t, testImages[typ]())
	v, err := Open(file)
	require.NoError(t, err)
	return v, file
}
