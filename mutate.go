package fatdir

import (
	"syscall"

	"github.com/aligator/fatdir/checkpoint"
	"github.com/sirupsen/logrus"
)

// FindFreeSlot returns the first reusable slot of the directory starting at dir.
// Both free and end-of-directory slots qualify. If a chained directory has no such
// slot, one cluster is allocated, linked onto the chain and zeroed, and isNew is true.
// The fixed FAT12/16 root can't grow and fails with ErrOutOfSpace.
func (fs *Fs) FindFreeSlot(dir Addr) (loc Location, isNew bool, err error) {
	loc, _, isNew, err = fs.findFreeSlot(dir)
	return loc, isNew, err
}

func (fs *Fs) findFreeSlot(dir Addr) (Location, []byte, bool, error) {
	c, err := fs.openCursor(dir)
	if err != nil {
		return Location{}, nil, false, err
	}

	for {
		switch c.slot().kind {
		case slotEnd, slotFree:
			return c.location(), c.buf, false, nil
		}

		ok, err := c.next()
		if err != nil {
			return Location{}, nil, false, err
		}
		if !ok {
			break
		}
	}

	if c.unit.IsRootSector() {
		return Location{}, nil, false, checkpoint.Wrapf(syscall.ENOSPC, ErrOutOfSpace, "root directory full")
	}

	unit, buf, err := fs.growChain(c.unit.Value())
	if err != nil {
		return Location{}, nil, false, err
	}
	return Location{Unit: unit}, buf, true, nil
}

// growChain appends a zeroed cluster to the chain ending at last. Any partial
// allocation is undone before an error is returned.
func (fs *Fs) growChain(last uint32) (Addr, []byte, error) {
	log := fs.log.WithField("last", last)

	cluster, err := fs.fat.Allocate()
	if err != nil {
		log.WithError(err).Error("Error allocating directory cluster")
		return Addr{}, nil, checkpoint.Wrapf(err, ErrOutOfSpace, "growing directory at cluster %d", last)
	}
	log = log.WithField("cluster", cluster)

	if err := fs.fat.Link(last, cluster); err != nil {
		log.WithError(err).Error("Error writing FAT for new directory cluster")
		fs.rollback(log, cluster, 0, false)
		return Addr{}, nil, errIO(err, ChainCluster(last))
	}

	unit := ChainCluster(cluster)
	buf, err := fs.units.ClearUnit(unit)
	if err != nil {
		log.WithError(err).Error("Error clearing new directory cluster")
		fs.rollback(log, cluster, last, true)
		return Addr{}, nil, errIO(err, unit)
	}
	fs.units.MarkDirty(unit)

	log.Debug("Grew directory")
	return unit, buf, nil
}

// rollback frees an allocated cluster and, if it was already linked, terminates the
// chain at last again. Failures are only logged; the caller returns the error that
// triggered the rollback.
func (fs *Fs) rollback(log logrus.FieldLogger, cluster, last uint32, linked bool) {
	if err := fs.fat.Link(cluster, FreeCluster); err != nil {
		log.WithError(err).Error("Error freeing directory cluster during rollback")
	}
	if !linked {
		return
	}
	if err := fs.fat.Link(last, EndOfChainMark); err != nil {
		log.WithError(err).Error("Error terminating directory chain during rollback")
	}
}

// AddShortEntry writes a new short entry into the first free slot of the directory
// starting at dir. All timestamps are set to the current time.
func (fs *Fs) AddShortEntry(dir Addr, name [11]byte, attr byte, target uint32) (Location, error) {
	loc, buf, _, err := fs.findFreeSlot(dir)
	if err != nil {
		return Location{}, err
	}

	h := EntryHeader{
		Name:      name,
		Attribute: attr,
	}
	h.SetCluster(target)

	now := PackTimestamp(fs.now())
	h.CreateDate, h.CreateTime, h.CreateTimeTenth = now.Date, now.Time, now.Tenth
	h.WriteDate, h.WriteTime = now.Date, now.Time
	h.LastAccessDate = now.Date

	raw, err := h.MarshalBinary()
	if err != nil {
		return Location{}, checkpoint.Wrap(err, ErrIO)
	}
	copy(buf[loc.Offset:loc.Offset+EntrySize], raw)
	fs.units.MarkDirty(loc.Unit)

	fs.log.WithFields(logrus.Fields{
		"name":  shortName(name),
		"entry": loc.String(),
	}).Debug("Added directory entry")
	return loc, nil
}

// AddEntry creates name inside the directory described by parent. Only names in
// 8.3 form can be created; anything else fails with ErrNameTooLong.
func (fs *Fs) AddEntry(parent Entry, name string, attr byte, target uint32) (Found, error) {
	if !parent.IsDir() {
		return Found{}, errNotADirectory(shortName(parent.Name))
	}
	if name == "" {
		return Found{}, checkpoint.Wrapf(syscall.EINVAL, ErrInvalidName, "empty name")
	}
	if !IsShortForm(name) {
		return Found{}, checkpoint.Wrapf(syscall.ENAMETOOLONG, ErrNameTooLong, "%q", name)
	}

	packed := NormalizeShort(name)
	loc, err := fs.AddShortEntry(parent.Start(), packed, attr, target)
	if err != nil {
		return Found{}, err
	}

	h := EntryHeader{Name: packed, Attribute: attr}
	h.SetCluster(target)
	return Found{Entry: fs.entryFrom(h), Short: loc}, nil
}

// AddDotEntries writes the "." and ".." entries into the freshly cleared directory
// cluster dir. The ".." entry of a directory inside the root points at cluster 0.
func (fs *Fs) AddDotEntries(dir uint32, parent Entry) error {
	parentCluster := parent.Cluster()
	if parent.Start() == fs.params.RootAddr() {
		parentCluster = 0
	}

	if _, err := fs.AddShortEntry(ChainCluster(dir), dotName, AttrDirectory, dir); err != nil {
		return err
	}
	_, err := fs.AddShortEntry(ChainCluster(dir), dotDotName, AttrDirectory, parentCluster)
	return err
}

// Erase frees the short entry at short and, unless long is zero, the long name chain
// starting at long. The chain is expected to run up to the short entry.
func (fs *Fs) Erase(short, long Location) error {
	buf, err := fs.units.ReadUnit(short.Unit)
	if err != nil {
		fs.logUnitError(err, short.Unit, "Error reading directory entry for deletion")
		return errIO(err, short.Unit)
	}
	if short.Offset%EntrySize != 0 || int(short.Offset)+EntrySize > len(buf) {
		return errCorrupt(short, "invalid entry offset")
	}

	buf[short.Offset] = markerFree
	fs.units.MarkDirty(short.Unit)

	if long.IsZero() {
		return nil
	}

	c, err := fs.cursorAt(long)
	if err != nil {
		return err
	}

	for {
		switch s := c.slot(); s.kind {
		case slotFree:
			// The short entry freed above terminates the chain.
			return nil
		case slotEnd:
			fs.log.WithField("entry", c.location().String()).Error("End of directory hit while erasing long name")
			return errCorrupt(c.location(), "end of directory inside a long name")
		case slotShort:
			fs.log.WithField("entry", c.location().String()).Error("Invalid entry hit while erasing long name")
			return errCorrupt(c.location(), "short entry inside a long name")
		}

		c.raw()[0] = markerFree
		fs.units.MarkDirty(c.unit)

		ok, err := c.next()
		if err != nil {
			return err
		}
		if !ok {
			fs.log.WithField("entry", c.location().String()).Error("End of directory hit while erasing long name")
			return errCorrupt(c.location(), "directory ends inside a long name")
		}
	}
}
