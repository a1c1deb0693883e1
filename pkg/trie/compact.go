package trie

import (
	"fmt"

	"github.com/addrstat/addrstat/pkg/binreader"
)

// CompactSignature marks the in-memory trie's save format: the same
// 0xABABABAB magic as the double-array format, followed directly by a
// length-prefixed list of (key, value) pairs rather than a node table.
// Loader distinguishes the two shapes (see Load in loader.go).
const CompactSignature = 0xABABABAB

// Value is the set of integer value types the on-disk trie formats store
// (vocabulary ids, phrase ids, postal-code ids).
type Value interface {
	~uint32 | ~uint64
}

// valueWidth reports whether T should be serialized as 4 or 8 bytes.
func valueWidth[T Value]() int {
	var v T
	switch any(v).(type) {
	case uint64:
		return 8
	default:
		return 4
	}
}

// SaveCompact writes t in the compact (key, value)-list format.
func SaveCompact[T Value](t *Trie[T], w *binreader.Writer) error {
	if err := w.Signature(CompactSignature); err != nil {
		return err
	}
	pairs := t.PrefixEnumerate("")
	if err := w.U32(uint32(len(pairs))); err != nil {
		return err
	}
	wide := valueWidth[T]() == 8
	for _, p := range pairs {
		if err := w.String(p.Key); err != nil {
			return err
		}
		if wide {
			if err := w.U64(uint64(p.Value)); err != nil {
				return err
			}
		} else {
			if err := w.U32(uint32(p.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadCompact reads a trie written by SaveCompact. The signature must
// already have been consumed by the caller (see Load in loader.go, which
// dispatches between compact and double-array shapes).
func LoadCompact[T Value](r *binreader.Reader, count uint32) (*Trie[T], error) {
	t := New[T]()
	wide := valueWidth[T]() == 8
	for i := uint32(0); i < count; i++ {
		key, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("trie: reading key %d: %w", i, err)
		}
		var value T
		if wide {
			v, err := r.U64()
			if err != nil {
				return nil, fmt.Errorf("trie: reading value %d: %w", i, err)
			}
			value = T(v)
		} else {
			v, err := r.U32()
			if err != nil {
				return nil, fmt.Errorf("trie: reading value %d: %w", i, err)
			}
			value = T(v)
		}
		if key == "" {
			return nil, fmt.Errorf("trie: empty key at entry %d: %w", i, ErrEmptyKey)
		}
		if err := t.Insert(key, value); err != nil {
			return nil, err
		}
	}
	return t, nil
}
