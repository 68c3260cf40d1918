// Package ucs2 converts names between UTF-8 and the UCS-2 units stored in VFAT long
// name records and folds their case.
package ucs2

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// MaxLen is the longest long name VFAT can store, in UCS-2 units.
const MaxLen = 255

// ErrInvalidName is returned for names which are not valid UTF-8, contain runes
// outside the Basic Multilingual Plane or are too long.
var ErrInvalidName = errors.New("name is not representable as UCS-2")

var lfnEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Latin converts through UTF-16LE and folds ASCII and Latin-1 letters.
// It is safe for concurrent use.
type Latin struct{}

// ToUCS2 converts a UTF-8 name into UCS-2 units.
func (Latin) ToUCS2(name string) ([]uint16, error) {
	if !utf8.ValidString(name) {
		return nil, ErrInvalidName
	}
	for _, r := range name {
		if r > 0xFFFF {
			return nil, ErrInvalidName
		}
	}

	raw, err := lfnEncoding.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, err
	}

	if len(raw)/2 > MaxLen {
		return nil, ErrInvalidName
	}

	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return units, nil
}

// ToLower folds s in place.
func (Latin) ToLower(s []uint16) {
	for i, c := range s {
		s[i] = Lower(c)
	}
}

// ToUTF8 converts UCS-2 units, stopping at the first NUL, into a UTF-8 string.
func ToUTF8(s []uint16) (string, error) {
	s = s[:Len(s)]

	raw := make([]byte, 2*len(s))
	for i, c := range s {
		binary.LittleEndian.PutUint16(raw[2*i:], c)
	}

	out, err := lfnEncoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Len returns the count of units before the first NUL or len(s) if there is none.
func Len(s []uint16) int {
	for i, c := range s {
		if c == 0 {
			return i
		}
	}
	return len(s)
}

// Lower folds a single unit. Only A-Z and the Latin-1 capitals are changed; the
// multiplication sign sits inside that block and is left alone.
func Lower(c uint16) uint16 {
	switch {
	case c >= 'A' && c <= 'Z':
		return c + 0x20
	case c >= 0xC0 && c <= 0xDE && c != 0xD7:
		return c + 0x20
	}
	return c
}
