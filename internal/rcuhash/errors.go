package rcuhash

import "errors"

// ErrExist is returned by Add when a node with the same key is already
// present in the table.
var ErrExist = errors.New("rcuhash: key already exists")

// ErrNotExist is returned by Steal/Delete when no node with the given key
// is present in the table. It replaces the reference design's tagged
// -ENOENT pointer sentinel with an ordinary error return, the interface
// the reference design itself suggests as the cleaner alternative.
var ErrNotExist = errors.New("rcuhash: key does not exist")

// ErrInvalidSize is returned by New when nbuckets is not a positive power
// of two, mirroring the reference design's allocation-failure class: a
// malformed construction parameter yields a null table and an error
// instead of a usable Table.
var ErrInvalidSize = errors.New("rcuhash: nbuckets must be a positive power of two")
