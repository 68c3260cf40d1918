package fatdir

// IsEmpty reports whether the directory starting at dir holds nothing but the
// "." and ".." entries.
func (fs *Fs) IsEmpty(dir Addr) (bool, error) {
	c, err := fs.openCursor(dir)
	if err != nil {
		return false, err
	}

	for {
		s := c.slot()
		switch s.kind {
		case slotEnd:
			return true, nil
		case slotShort:
			if s.short.Name != dotName && s.short.Name != dotDotName {
				return false, nil
			}
		}

		ok, err := c.next()
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}
}
