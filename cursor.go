package fatdir

// cursor walks the slots of a directory in storage order, crossing unit boundaries
// either through the FAT chain or, in the fixed root region, by sector increment.
type cursor struct {
	fs *Fs

	unit  Addr
	buf   []byte
	index int
	per   int

	// left counts the slots of the root region from the current unit on.
	// It is unused for chained directories.
	left int
}

// openCursor positions a new cursor on the first slot of dir.
func (fs *Fs) openCursor(dir Addr) (*cursor, error) {
	return fs.cursorAt(Location{Unit: dir})
}

// cursorAt positions a new cursor on the slot at loc.
func (fs *Fs) cursorAt(loc Location) (*cursor, error) {
	c := &cursor{
		fs:    fs,
		unit:  loc.Unit,
		per:   fs.params.entriesPerUnit(loc.Unit),
		index: int(loc.Offset / EntrySize),
	}

	if loc.Unit.IsZero() || c.index >= c.per {
		return nil, errCorrupt(loc, "invalid directory location")
	}

	if loc.Unit.IsRootSector() {
		first := fs.params.RootDirSector()
		if loc.Unit.Value() < first {
			return nil, errCorrupt(loc, "sector before the root region")
		}
		c.left = int(fs.params.RootEntries) - int(loc.Unit.Value()-first)*c.per
		if c.left <= 0 {
			return nil, errCorrupt(loc, "sector past the root region")
		}
	}

	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cursor) load() error {
	buf, err := c.fs.units.ReadUnit(c.unit)
	if err != nil {
		c.fs.logUnitError(err, c.unit, "Error reading directory unit")
		return errIO(err, c.unit)
	}
	c.buf = buf
	return nil
}

func (c *cursor) raw() []byte {
	off := c.index * EntrySize
	return c.buf[off : off+EntrySize]
}

func (c *cursor) slot() slot {
	return decodeSlot(c.raw())
}

func (c *cursor) location() Location {
	return Location{Unit: c.unit, Offset: uint32(c.index * EntrySize)}
}

// atUnitEnd reports whether the current slot is the last one of its unit.
func (c *cursor) atUnitEnd() bool {
	return c.index+1 >= c.per
}

// next moves to the following slot. It returns false when the directory has no
// further units, in which case the cursor stays on the last slot.
func (c *cursor) next() (bool, error) {
	if !c.atUnitEnd() {
		c.index++
		return true, nil
	}

	ok, err := c.nextUnit()
	if err != nil || !ok {
		return false, err
	}
	c.index = 0
	return true, nil
}

func (c *cursor) nextUnit() (bool, error) {
	if c.unit.IsRootSector() {
		c.left -= c.per
		if c.left <= 0 {
			return false, nil
		}
		c.unit = RootSector(c.unit.Value() + 1)
		return true, c.load()
	}

	value, err := c.fs.fat.Next(c.unit.Value())
	if err != nil {
		c.fs.logUnitError(err, c.unit, "Error reading FAT chain of directory")
		return false, errIO(err, c.unit)
	}
	if c.fs.fat.IsEndOfChain(value) {
		return false, nil
	}
	if value < 2 {
		return false, errCorrupt(c.location(), "invalid FAT value %#x", value)
	}

	c.unit = ChainCluster(value)
	return true, c.load()
}
