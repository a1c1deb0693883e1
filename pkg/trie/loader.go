package trie

import (
	"bytes"
	"fmt"
	"io"

	"github.com/addrstat/addrstat/pkg/binreader"
	"github.com/charmbracelet/log"
)

// LookupTrie is satisfied by both backing shapes the loader can produce:
// a read-only DoubleArrayTrie and a mutable Trie[uint32] loaded from the
// compact format.
type LookupTrie interface {
	Lookup(key string) (uint32, bool)
}

// Lookup is Get by another name, letting Trie[uint32] satisfy LookupTrie
// alongside DoubleArrayTrie.
func (t *Trie[T]) Lookup(key string) (T, bool) { return t.Get(key) }

// KeyEnumerator is satisfied by a loaded resource that supports full
// enumeration in addition to lookup, which the phrase matcher needs once
// at construction time to harvest affix markers (keys starting or ending
// with '|').
type KeyEnumerator interface {
	LookupTrie
	All() []Pair[uint32]
}

// Load reads a trie file, auto-detecting whether it holds the on-disk
// double-array format or the in-memory trie's compact save format. Both
// shapes share the 0xABABABAB signature; the loader distinguishes them by
// attempting the double-array parse first (it checks the alphabet size and
// that the node table, data table and tail pool fit in the bytes present;
// terminal data indices are range-checked at lookup, not here) and falling back
// to the compact (key, value)-list parse when that attempt fails
// structurally.
func Load(r io.Reader) (LookupTrie, error) {
	br := binreader.New(r)
	if err := br.Signature(DoubleArraySignature); err != nil {
		return nil, fmt.Errorf("trie: %w", err)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("trie: reading body: %w", err)
	}

	if da, err := readDoubleArrayBody(binreader.New(bytes.NewReader(rest))); err == nil {
		log.Debugf("trie: loaded double-array shape, %d bytes", len(rest))
		return da, nil
	}

	body := binreader.New(bytes.NewReader(rest))
	count, err := body.U32()
	if err != nil {
		return nil, fmt.Errorf("trie: neither double-array nor compact shape parsed: %w", err)
	}
	compact, err := LoadCompact[uint32](body, count)
	if err != nil {
		return nil, fmt.Errorf("trie: neither double-array nor compact shape parsed: %w", err)
	}
	log.Debugf("trie: loaded compact shape, %d entries", count)
	return compact, nil
}
