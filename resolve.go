package fatdir

import "strings"

// Resolve walks path from the volume root. Empty segments are ignored, so "" and "/"
// resolve to a synthesized root entry. A path ending in "/" must name a directory.
func (fs *Fs) Resolve(path string) (Found, error) {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/'
	})

	root := fs.RootEntry()
	if len(parts) == 0 {
		return Found{Entry: root}, nil
	}

	current := Found{Entry: root}
	for i, part := range parts {
		// Everything but the last component has to be a directory.
		if !current.Entry.IsDir() {
			return Found{}, errNotADirectory(strings.Join(parts[:i], "/"))
		}

		next, err := fs.Lookup(current.Entry.Start(), part)
		if err != nil {
			return Found{}, err
		}
		current = next
	}

	if strings.HasSuffix(path, "/") && !current.Entry.IsDir() {
		return Found{}, errNotADirectory(path)
	}

	fs.log.WithField("path", path).WithField("entry", current.Short.String()).Debug("Resolved path")
	return current, nil
}

// FindChild looks up a single name inside the directory described by parent.
func (fs *Fs) FindChild(parent Entry, name string) (Found, error) {
	if !parent.IsDir() {
		return Found{}, errNotADirectory(shortName(parent.Name))
	}
	return fs.Lookup(parent.Start(), name)
}
