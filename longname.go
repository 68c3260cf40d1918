package fatdir

import (
	"github.com/aligator/fatdir/checkpoint"
	"github.com/aligator/fatdir/internal/ucs2"
)

// longNameScratch holds the buffers used to assemble one long name. Every lookup
// allocates its own, so concurrent lookups on different volumes never share state.
type longNameScratch struct {
	// name has room for the largest chain an order byte can declare.
	name [int(orderMask) * lfnCharsPerEntry]uint16
	// folded is the case folded copy of name used for comparison.
	folded [int(orderMask) * lfnCharsPerEntry]uint16
}

// SearchLong looks for the entry whose VFAT long name equals name, ignoring case, in
// the directory starting at dir.
//
// Chains declaring a length shorter than the query are skipped as a whole, trusting
// the declared count. The checksum of a chain is only compared to its short entry
// if the Fs was created WithStrictChecksum.
func (fs *Fs) SearchLong(name string, dir Addr) (Found, error) {
	query, err := fs.charset.ToUCS2(name)
	if err != nil {
		return Found{}, checkpoint.Wrapf(err, ErrNotFound, "%q", name)
	}
	if len(query) == 0 {
		return Found{}, errNotFound(name)
	}
	fs.charset.ToLower(query)

	scratch := &longNameScratch{}

	c, err := fs.openCursor(dir)
	if err != nil {
		return Found{}, err
	}

	skip := 0
	for {
		if skip > 0 {
			skip--
		} else {
			found, matched, nextSkip, err := fs.matchChain(c, query, scratch)
			switch {
			case err != nil:
				return Found{}, err
			case matched:
				return found, nil
			case nextSkip < 0:
				return Found{}, errNotFound(name)
			}
			skip = nextSkip
		}

		ok, err := c.next()
		if err != nil {
			return Found{}, err
		}
		if !ok {
			return Found{}, errNotFound(name)
		}
	}
}

// matchChain inspects the slot under c. If it starts a long name chain, the chain is
// read and compared to query. On return c stays on the last slot it consumed and skip
// tells how many following slots the scan may pass over; skip < 0 means the end of
// the directory was reached.
func (fs *Fs) matchChain(c *cursor, query []uint16, scratch *longNameScratch) (found Found, matched bool, skip int, err error) {
	s := c.slot()
	switch s.kind {
	case slotEnd:
		return Found{}, false, -1, nil
	case slotFree, slotShort:
		return Found{}, false, 0, nil
	}

	if !s.long.isLast() {
		return Found{}, false, 0, nil
	}

	count := s.long.order()
	if count == 0 {
		return Found{}, false, 0, nil
	}

	// Skip the rest of the chain and its short entry if the declared length can't
	// hold the query.
	if len(query) > count*lfnCharsPerEntry {
		return Found{}, false, count, nil
	}

	base := (count - 1) * lfnCharsPerEntry
	s.long.chars(scratch.name[base : base+lfnCharsPerEntry])
	length := base + ucs2.Len(scratch.name[base:base+lfnCharsPerEntry])
	if len(query) > length {
		return Found{}, false, count, nil
	}

	start := c.location()
	checksum := s.long.Checksum

	if count > 1 {
		if err := c.readContinuation(count-1, scratch.name[:]); err != nil {
			return Found{}, false, 0, err
		}
	}

	if !fs.equalFolded(scratch, length, query) {
		// Realign on the slot after the chain.
		return Found{}, false, 1, nil
	}

	ok, err := c.next()
	if err != nil {
		return Found{}, false, 0, err
	}
	if !ok {
		return Found{}, false, 0, errCorrupt(start, "long name chain at the end of the directory")
	}

	short := c.slot()
	switch short.kind {
	case slotEnd, slotFree:
		// The chain is left over from an entry which has been erased.
		return Found{}, false, -1, nil
	case slotLong:
		return Found{}, false, 0, errCorrupt(c.location(), "long name chain without short entry")
	}

	if fs.strictChecksum && LongNameChecksum(short.short.Name) != checksum {
		fs.log.WithField("chain", start.String()).Warn("Long name checksum mismatch")
		return Found{}, false, 0, nil
	}

	longName, err := ucs2.ToUTF8(scratch.name[:length])
	if err != nil {
		longName = ""
	}

	return Found{
		Entry:    fs.entryFrom(short.short),
		Short:    c.location(),
		Long:     start,
		LongName: longName,
	}, true, 0, nil
}

func (fs *Fs) equalFolded(scratch *longNameScratch, length int, query []uint16) bool {
	if length != len(query) {
		return false
	}

	folded := scratch.folded[:length]
	copy(folded, scratch.name[:length])
	fs.charset.ToLower(folded)

	for i := range folded {
		if folded[i] != query[i] {
			return false
		}
	}
	return true
}

// readContinuation consumes the remaining records of a chain whose last-numbered
// record is under c. It requires the order numbers remaining, remaining-1, ..., 1 in
// storage order and stores their characters into dst. On success c stays on the
// record numbered 1.
func (c *cursor) readContinuation(remaining int, dst []uint16) error {
	for want := remaining; want >= 1; want-- {
		ok, err := c.next()
		if err != nil {
			return err
		}
		if !ok {
			return errCorrupt(c.location(), "directory ends inside a long name")
		}

		s := c.slot()
		switch {
		case s.kind == slotEnd:
			return errCorrupt(c.location(), "end of directory inside a long name")
		case s.kind == slotFree:
			return errCorrupt(c.location(), "free slot inside a long name")
		case s.kind != slotLong:
			return errCorrupt(c.location(), "short entry inside a long name")
		case s.long.order() != want:
			return errCorrupt(c.location(), "long name record %d where %d was expected", s.long.order(), want)
		}

		base := (want - 1) * lfnCharsPerEntry
		s.long.chars(dst[base : base+lfnCharsPerEntry])
	}
	return nil
}
