package fatdir

import (
	"errors"
	"syscall"
	"testing"

	"github.com/golang/mock/gomock"
)

func TestFs_FindFreeSlot(t *testing.T) {
	type want struct {
		loc     Location
		isNew   bool
		wantErr error
	}
	tests := []struct {
		name   string
		params Params
		setup  func(d *memDisk)
		dir    Addr
		want   want
	}{
		{
			name:   "empty root",
			params: fat16Params(),
			setup:  func(d *memDisk) {},
			dir:    RootSector(3),
			want:   want{loc: Location{Unit: RootSector(3), Offset: 0}},
		},
		{
			name:   "end marker after entries",
			params: fat16Params(),
			setup: func(d *memDisk) {
				d.write(RootSector(3), 0, shortSlot("A", AttrArchive, 0), shortSlot("B", AttrArchive, 0))
			},
			dir:  RootSector(3),
			want: want{loc: Location{Unit: RootSector(3), Offset: 2 * EntrySize}},
		},
		{
			name:   "free slot before the end",
			params: fat16Params(),
			setup: func(d *memDisk) {
				d.write(RootSector(3), 0, shortSlot("A", AttrArchive, 0), freeSlot(), shortSlot("B", AttrArchive, 0))
			},
			dir:  RootSector(3),
			want: want{loc: Location{Unit: RootSector(3), Offset: EntrySize}},
		},
		{
			name:   "second root sector",
			params: fat16Params(),
			setup: func(d *memDisk) {
				for i := 0; i < 20; i++ {
					d.write(RootSector(3), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
				}
			},
			dir:  RootSector(3),
			want: want{loc: Location{Unit: RootSector(4), Offset: 4 * EntrySize}},
		},
		{
			name:   "full root",
			params: fat16Params(),
			setup: func(d *memDisk) {
				for i := 0; i < 32; i++ {
					d.write(RootSector(3), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
				}
			},
			dir:  RootSector(3),
			want: want{wantErr: ErrOutOfSpace},
		},
		{
			name:   "full chained directory grows",
			params: fat32Params(),
			setup: func(d *memDisk) {
				d.chain(2, 3)
				d.chain(4)
				for i := 0; i < 32; i++ {
					d.write(ChainCluster(2), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
				}
			},
			dir:  ChainCluster(2),
			want: want{loc: Location{Unit: ChainCluster(5), Offset: 0}, isNew: true},
		},
		{
			name:   "full chained directory without free cluster",
			params: fat32Params(),
			setup: func(d *memDisk) {
				for i := range d.fat {
					d.fat[i] = EndOfChainMark
				}
				for i := 0; i < 16; i++ {
					d.write(ChainCluster(2), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
				}
			},
			dir:  ChainCluster(2),
			want: want{wantErr: ErrOutOfSpace},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMemDisk(tt.params, 8)
			tt.setup(d)
			fs := testingNew(t, d)

			got, isNew, err := fs.FindFreeSlot(tt.dir)
			if !errors.Is(err, tt.want.wantErr) {
				t.Errorf("Fs.FindFreeSlot() error = %v, wantErr %v", err, tt.want.wantErr)
				return
			}
			if tt.want.wantErr != nil {
				return
			}
			if got != tt.want.loc {
				t.Errorf("Fs.FindFreeSlot() = %v, want %v", got, tt.want.loc)
			}
			if isNew != tt.want.isNew {
				t.Errorf("Fs.FindFreeSlot() isNew = %v, want %v", isNew, tt.want.isNew)
			}
		})
	}
}

func TestFs_FindFreeSlot_Growth(t *testing.T) {
	d := newMemDisk(fat32Params(), 8)
	d.chain(2, 3)
	for i := 0; i < 32; i++ {
		d.write(ChainCluster(2), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
	}
	// Stale data in the cluster which is going to be allocated.
	d.write(ChainCluster(4), 0, shortSlot("STALE", AttrArchive, 0))

	fs := testingNew(t, d)
	loc, isNew, err := fs.FindFreeSlot(ChainCluster(2))
	if err != nil {
		t.Fatalf("Fs.FindFreeSlot() error = %v", err)
	}
	if !isNew || loc != (Location{Unit: ChainCluster(4)}) {
		t.Fatalf("Fs.FindFreeSlot() = %v, %v", loc, isNew)
	}

	if d.fat[3] != 4 {
		t.Errorf("cluster 3 links to %v, want 4", d.fat[3])
	}
	if !d.IsEndOfChain(d.fat[4]) {
		t.Errorf("cluster 4 is %#x, want end of chain", d.fat[4])
	}
	if !d.dirty[ChainCluster(4)] {
		t.Errorf("new cluster not marked dirty")
	}
	for i, b := range d.units[ChainCluster(4)] {
		if b != 0 {
			t.Fatalf("new cluster not zeroed at %d", i)
		}
	}
	for c := 5; c < len(d.fat); c++ {
		if d.fat[c] != FreeCluster {
			t.Errorf("cluster %d allocated as well", c)
		}
	}
}

func TestFs_FindFreeSlot_Rollback(t *testing.T) {
	errDevice := errors.New("device failure")

	tests := []struct {
		name    string
		expect  func(units *MockUnitIO, fat *MockFAT)
		wantErr []error
	}{
		{
			name: "allocation fails",
			expect: func(units *MockUnitIO, fat *MockFAT) {
				fat.EXPECT().Allocate().Return(uint32(0), errDevice)
			},
			wantErr: []error{ErrOutOfSpace, errDevice},
		},
		{
			name: "link fails",
			expect: func(units *MockUnitIO, fat *MockFAT) {
				gomock.InOrder(
					fat.EXPECT().Allocate().Return(uint32(9), nil),
					fat.EXPECT().Link(uint32(5), uint32(9)).Return(errDevice),
					fat.EXPECT().Link(uint32(9), FreeCluster).Return(nil),
				)
			},
			wantErr: []error{ErrIO, errDevice},
		},
		{
			name: "clear fails",
			expect: func(units *MockUnitIO, fat *MockFAT) {
				gomock.InOrder(
					fat.EXPECT().Allocate().Return(uint32(9), nil),
					fat.EXPECT().Link(uint32(5), uint32(9)).Return(nil),
					units.EXPECT().ClearUnit(ChainCluster(9)).Return(nil, errDevice),
					fat.EXPECT().Link(uint32(9), FreeCluster).Return(nil),
					fat.EXPECT().Link(uint32(5), EndOfChainMark).Return(nil),
				)
			},
			wantErr: []error{ErrIO, errDevice},
		},
		{
			name: "rollback fails as well",
			expect: func(units *MockUnitIO, fat *MockFAT) {
				gomock.InOrder(
					fat.EXPECT().Allocate().Return(uint32(9), nil),
					fat.EXPECT().Link(uint32(5), uint32(9)).Return(nil),
					units.EXPECT().ClearUnit(ChainCluster(9)).Return(nil, errDevice),
					fat.EXPECT().Link(uint32(9), FreeCluster).Return(errors.New("other failure")),
					fat.EXPECT().Link(uint32(5), EndOfChainMark).Return(nil),
				)
			},
			wantErr: []error{ErrIO, errDevice},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			units := NewMockUnitIO(mockCtrl)
			fat := NewMockFAT(mockCtrl)

			full := make([]byte, 512)
			for i := 0; i < 16; i++ {
				copy(full[i*EntrySize:], shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
			}
			units.EXPECT().ReadUnit(ChainCluster(5)).Return(full, nil)
			fat.EXPECT().Next(uint32(5)).Return(EndOfChainMark, nil)
			fat.EXPECT().IsEndOfChain(EndOfChainMark).Return(true)
			tt.expect(units, fat)

			fs, err := New(fat32Params(), units, fat)
			if err != nil {
				t.Fatal(err)
			}

			_, _, err = fs.FindFreeSlot(ChainCluster(5))

			mockCtrl.Finish()

			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Fs.FindFreeSlot() error = %v, wantErr %v", err, want)
				}
			}
		})
	}
}

func TestFs_AddEntry(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		entry   string
		attr    byte
		target  uint32
		wantErr []error
	}{
		{
			name:   "file in the FAT16 root",
			params: fat16Params(),
			entry:  "FOO.TXT",
			attr:   AttrArchive,
			target: 7,
		},
		{
			name:   "lower case name in the FAT32 root",
			params: fat32Params(),
			entry:  "foo.txt",
			attr:   AttrArchive,
			target: 7,
		},
		{
			name:   "directory",
			params: fat32Params(),
			entry:  "SUBDIR",
			attr:   AttrDirectory,
			target: 5,
		},
		{
			name:    "long name",
			params:  fat32Params(),
			entry:   "MixedCase.longname",
			wantErr: []error{ErrNameTooLong, syscall.ENAMETOOLONG},
		},
		{
			name:    "empty name",
			params:  fat32Params(),
			entry:   "",
			wantErr: []error{ErrInvalidName, syscall.EINVAL},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMemDisk(tt.params, 8)
			d.chain(2)
			fs := testingNew(t, d)

			added, err := fs.AddEntry(fs.RootEntry(), tt.entry, tt.attr, tt.target)
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Fs.AddEntry() error = %v, wantErr %v", err, want)
				}
			}
			if tt.wantErr != nil {
				return
			}
			if err != nil {
				t.Fatalf("Fs.AddEntry() error = %v", err)
			}

			got, err := fs.Resolve(tt.entry)
			if err != nil {
				t.Fatalf("Fs.Resolve() error = %v", err)
			}
			if got.Short != added.Short {
				t.Errorf("Fs.Resolve() short = %v, want %v", got.Short, added.Short)
			}
			if got.Entry.Attribute != tt.attr {
				t.Errorf("Fs.Resolve() attribute = %#x, want %#x", got.Entry.Attribute, tt.attr)
			}
			if got.Entry.Cluster() != tt.target {
				t.Errorf("Fs.Resolve() cluster = %v, want %v", got.Entry.Cluster(), tt.target)
			}
			if !d.dirty[added.Short.Unit] {
				t.Errorf("unit %v not marked dirty", added.Short.Unit)
			}

			want := PackTimestamp(fs.now())
			if got.Entry.WriteDate != want.Date || got.Entry.WriteTime != want.Time || got.Entry.CreateTimeTenth != want.Tenth {
				t.Errorf("Fs.AddEntry() timestamp = %v %v %v, want %v", got.Entry.WriteDate, got.Entry.WriteTime, got.Entry.CreateTimeTenth, want)
			}
		})
	}
}

func TestFs_AddEntry_NotADirectory(t *testing.T) {
	d := newMemDisk(fat16Params(), 8)
	fs := testingNew(t, d)

	file, err := fs.AddEntry(fs.RootEntry(), "FILE.TXT", AttrArchive, 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = fs.AddEntry(file.Entry, "OTHER", AttrArchive, 0)
	if !errors.Is(err, ErrNotADirectory) || !errors.Is(err, syscall.ENOTDIR) {
		t.Errorf("Fs.AddEntry() error = %v, want ErrNotADirectory", err)
	}
}

func TestFs_AddDotEntries(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		wantParent uint32
	}{
		{name: "FAT16", params: fat16Params(), wantParent: 0},
		{name: "FAT32", params: fat32Params(), wantParent: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMemDisk(tt.params, 8)
			d.chain(2)
			d.chain(5)
			fs := testingNew(t, d)

			if _, err := fs.AddEntry(fs.RootEntry(), "SUB", AttrDirectory, 5); err != nil {
				t.Fatal(err)
			}
			if err := fs.AddDotEntries(5, fs.RootEntry()); err != nil {
				t.Fatalf("Fs.AddDotEntries() error = %v", err)
			}

			dot, err := fs.Resolve("SUB/.")
			if err != nil {
				t.Fatalf("Fs.Resolve() error = %v", err)
			}
			if dot.Entry.Cluster() != 5 || !dot.Entry.IsDir() {
				t.Errorf("dot entry = %v", dot.Entry)
			}

			dotDot, err := fs.Resolve("SUB/..")
			if err != nil {
				t.Fatalf("Fs.Resolve() error = %v", err)
			}
			if dotDot.Entry.Cluster() != tt.wantParent {
				t.Errorf("dot dot cluster = %v, want %v", dotDot.Entry.Cluster(), tt.wantParent)
			}
			if dotDot.Entry.Start() != fs.RootEntry().Start() {
				t.Errorf("dot dot start = %v, want the root", dotDot.Entry.Start())
			}

			empty, err := fs.IsEmpty(ChainCluster(5))
			if err != nil || !empty {
				t.Errorf("Fs.IsEmpty() = %v, %v, want true", empty, err)
			}
		})
	}
}

func TestFs_Erase(t *testing.T) {
	d := newMemDisk(fat16Params(), 8)
	d.write(RootSector(3), 0, shortSlot("README.MD", AttrArchive, 3))
	d.write(RootSector(3), 1, withShort("MixedCase.longname", "MIXEDC~1.LON", AttrArchive, 4)...)
	d.write(RootSector(3), 4, shortSlot("LAST", AttrArchive, 6))
	fs := testingNew(t, d)

	long, err := fs.Resolve("MixedCase.longname")
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Erase(long.Short, long.Long); err != nil {
		t.Fatalf("Fs.Erase() error = %v", err)
	}
	for i := 1; i <= 3; i++ {
		if raw := d.raw(d.slotAt(RootSector(3), i)); raw[0] != markerFree {
			t.Errorf("slot %d not freed: %#x", i, raw[0])
		}
	}
	if _, err := fs.Resolve("MixedCase.longname"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fs.Resolve() after erase error = %v, want ErrNotFound", err)
	}
	if _, err := fs.Resolve("LAST"); err != nil {
		t.Errorf("Fs.Resolve() of a following entry error = %v", err)
	}

	short, err := fs.Resolve("README.MD")
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Erase(short.Short, Location{}); err != nil {
		t.Fatalf("Fs.Erase() error = %v", err)
	}
	if _, err := fs.Resolve("README.MD"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fs.Resolve() after erase error = %v, want ErrNotFound", err)
	}

	// The closest freed slot is reused first.
	loc, isNew, err := fs.FindFreeSlot(RootSector(3))
	if err != nil {
		t.Fatal(err)
	}
	if isNew || loc != short.Short {
		t.Errorf("Fs.FindFreeSlot() = %v, %v, want %v", loc, isNew, short.Short)
	}
}

func TestFs_Erase_AcrossUnits(t *testing.T) {
	d := newMemDisk(fat32Params(), 8)
	d.chain(2, 6)
	for i := 0; i < 15; i++ {
		d.write(ChainCluster(2), i, shortSlot("FILE"+string(rune('A'+i)), AttrArchive, 0))
	}
	d.write(ChainCluster(2), 15, withShort("HelloWorldThisIsALoongFileName.txt", "HELLOW~1.TXT", AttrArchive, 12)...)
	fs := testingNew(t, d)

	found, err := fs.Resolve("HelloWorldThisIsALoongFileName.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Erase(found.Short, found.Long); err != nil {
		t.Fatalf("Fs.Erase() error = %v", err)
	}
	for i := 15; i <= 18; i++ {
		loc := d.slotAt(ChainCluster(2), i)
		if raw := d.raw(loc); raw[0] != markerFree {
			t.Errorf("slot %v not freed: %#x", loc, raw[0])
		}
		if !d.dirty[loc.Unit] {
			t.Errorf("unit %v not marked dirty", loc.Unit)
		}
	}
}

func TestFs_Erase_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		slots func() [][]byte
	}{
		{
			name: "short entry inside the chain",
			slots: func() [][]byte {
				s := withShort("MixedCase.longname", "MIXEDC~1.LON", AttrArchive, 4)
				s[1] = shortSlot("OTHER", AttrArchive, 0)
				return s
			},
		},
		{
			name: "end marker inside the chain",
			slots: func() [][]byte {
				s := withShort("MixedCase.longname", "MIXEDC~1.LON", AttrArchive, 4)
				s[1] = make([]byte, EntrySize)
				return s
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMemDisk(fat16Params(), 8)
			d.write(RootSector(3), 0, tt.slots()...)
			fs := testingNew(t, d)

			err := fs.Erase(Location{Unit: RootSector(3), Offset: 2 * EntrySize}, Location{Unit: RootSector(3)})
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("Fs.Erase() error = %v, want ErrCorrupt", err)
			}
		})
	}
}
