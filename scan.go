package fatdir

// Found is the result of a lookup: the entry, the slot holding it and, if the entry
// was found through its long name, the slot of the first record of that chain.
type Found struct {
	Entry Entry
	Short Location
	Long  Location

	// LongName is the stored long name, if the entry was found by it.
	LongName string
}

// Name returns the long name if known and the 8.3 name otherwise. The synthesized
// root entry is named "/".
func (f Found) Name() string {
	if f.LongName != "" {
		return f.LongName
	}
	if f.Short.IsZero() && f.Entry.Name == ([11]byte{}) {
		return "/"
	}
	return shortName(f.Entry.Name)
}

// SearchShort looks for the entry with the exact packed 11-byte name in the directory
// starting at dir.
func (fs *Fs) SearchShort(name [11]byte, dir Addr) (Found, error) {
	c, err := fs.openCursor(dir)
	if err != nil {
		return Found{}, err
	}

	for {
		s := c.slot()
		switch s.kind {
		case slotEnd:
			return Found{}, errNotFound(shortName(name))
		case slotShort:
			if s.short.Name == name {
				return Found{Entry: fs.entryFrom(s.short), Short: c.location()}, nil
			}
		}

		ok, err := c.next()
		if err != nil {
			return Found{}, err
		}
		if !ok {
			return Found{}, errNotFound(shortName(name))
		}
	}
}

// Lookup finds name in the directory starting at dir, using the short name scanner
// for 8.3 names and the long name scanner for everything else.
func (fs *Fs) Lookup(dir Addr, name string) (Found, error) {
	if packed, ok := dotEntryName(name); ok {
		return fs.SearchShort(packed, dir)
	}

	if IsShortForm(name) {
		return fs.SearchShort(NormalizeShort(name), dir)
	}
	return fs.SearchLong(name, dir)
}
