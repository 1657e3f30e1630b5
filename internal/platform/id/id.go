package id

import (
	"errors"
	"strconv"
	"strings"
)

var ErrEmpty = errors.New("id is required")

// ID is the identifier type shared by every record crossing the persistence
// boundary. Two IDs are equal iff their canonical strings are equal.
type ID string

// Parse canonicalises a raw identifier. Surrounding whitespace is dropped and
// purely numeric ids lose their leading zeros, so "007" and "7" are the same id.
func Parse(raw string) (ID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrEmpty
	}
	if n, err := strconv.ParseUint(value, 10, 64); err == nil {
		return ID(strconv.FormatUint(n, 10)), nil
	}

	return ID(value), nil
}

// MustParse is Parse for fixtures and seed data.
func MustParse(raw string) ID {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// FromInt is used by integer-keyed upstream sources.
func FromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

func (i ID) String() string {
	return string(i)
}

func (i ID) IsZero() bool {
	return i == ""
}
