package fatdir

import "strings"

// shortForbidden are the characters an 8.3 name must not contain. The second half is
// not allowed in long names either.
const shortForbidden = "+,;[] =" + "*:/\\|\"?<>"

// IsShortForm reports whether name fits the 8.3 form and can be stored without a
// long name chain.
func IsShortForm(name string) bool {
	if len(name) > 12 {
		return false
	}

	dot := strings.LastIndexByte(name, '.')
	switch {
	case dot == 0:
		// Short names can't start with a dot.
		return false
	case dot > 8:
		return false
	case dot > 0 && len(name)-dot > 4:
		// More than three characters after the dot.
		return false
	case dot < 0 && len(name) > 8:
		return false
	}

	if strings.Count(name, ".") > 1 {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c >= 0x80 || strings.IndexByte(shortForbidden, c) >= 0 {
			return false
		}
	}

	return true
}

// NormalizeShort packs name into the on-disk 11-byte form: the upper cased base padded
// with spaces to 8 bytes followed by the upper cased extension padded to 3 bytes.
// The name is not validated again, callers check it with IsShortForm first.
func NormalizeShort(name string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}

	base, ext := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		base, ext = name[:dot], name[dot+1:]
	}

	for i := 0; i < 8 && i < len(base); i++ {
		out[i] = upper(base[i])
	}
	for i := 0; i < 3 && i < len(ext); i++ {
		out[8+i] = upper(ext[i])
	}

	return out
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// dotEntryName maps the conventional "." and ".." components to their stored names.
func dotEntryName(name string) ([11]byte, bool) {
	switch name {
	case ".":
		return dotName, true
	case "..":
		return dotDotName, true
	}
	return [11]byte{}, false
}
