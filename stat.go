package fatdir

import (
	"os"
	"time"
)

// FileInfo returns an os.FileInfo view of the found entry.
func (f Found) FileInfo() os.FileInfo {
	return entryFileInfo{name: f.Name(), entry: f.Entry.EntryHeader}
}

type entryFileInfo struct {
	name  string
	entry EntryHeader
}

func (e entryFileInfo) Name() string {
	return e.name
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	mode := os.FileMode(0666)
	if e.entry.Attribute&AttrReadOnly != 0 {
		mode = 0444
	}
	if e.IsDir() {
		return mode | os.ModeDir | 0111
	}
	return mode
}

func (e entryFileInfo) ModTime() time.Time {
	return Timestamp{Date: e.entry.WriteDate, Time: e.entry.WriteTime}.ToTime()
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
