// Package trie implements the generic string->value mapping the parser's
// lexical resources are built on: a mutable in-memory trie for
// construction/testing (backed by a radix trie so prefix walks stay O(k)),
// plus a read-only loader for the compact double-array on-disk format the
// pre-trained models ship in.
//
// Key comparisons are case-sensitive at this layer; callers normalize
// (lower-case, NFD-strip) before calling into the trie.
package trie

import (
	"errors"
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrEmptyKey is returned when an insert is attempted with an empty key.
var ErrEmptyKey = errors.New("trie: empty key not permitted")

// Pair is a (key, value) result from prefix/key enumeration.
type Pair[T any] struct {
	Key   string
	Value T
}

// Trie is a mutable string->T mapping. The zero value is not usable; use
// New. Insertion is last-write-wins: inserting an existing key overwrites
// its value.
type Trie[T any] struct {
	backing *patricia.Trie
	size    int
}

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{backing: patricia.NewTrie()}
}

// Insert adds or overwrites key with value. Returns ErrEmptyKey for an
// empty key.
func (t *Trie[T]) Insert(key string, value T) error {
	if key == "" {
		return ErrEmptyKey
	}
	existed := t.backing.Get(patricia.Prefix(key)) != nil
	t.backing.Insert(patricia.Prefix(key), any(value))
	if !existed {
		t.size++
	}
	return nil
}

// Get returns the value for an exact key match.
func (t *Trie[T]) Get(key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}
	item := t.backing.Get(patricia.Prefix(key))
	if item == nil {
		return zero, false
	}
	v, ok := item.(T)
	return v, ok
}

// Has reports whether key is present.
func (t *Trie[T]) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of stored keys.
func (t *Trie[T]) Len() int { return t.size }

// PrefixEnumerate returns every (key, value) pair whose key starts with
// prefix. An empty prefix returns every key in the trie. Order is
// unspecified.
func (t *Trie[T]) PrefixEnumerate(prefix string) []Pair[T] {
	var out []Pair[T]
	_ = t.backing.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		v, ok := item.(T)
		if !ok {
			return nil
		}
		out = append(out, Pair[T]{Key: string(p), Value: v})
		return nil
	})
	return out
}

// All returns every (key, value) pair in the trie. Order is unspecified.
func (t *Trie[T]) All() []Pair[T] { return t.PrefixEnumerate("") }

// Keys returns every key in the trie, sorted for deterministic iteration.
func (t *Trie[T]) Keys() []string {
	pairs := t.PrefixEnumerate("")
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	sort.Strings(keys)
	return keys
}
