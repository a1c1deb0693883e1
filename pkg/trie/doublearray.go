package trie

import (
	"bytes"
	"fmt"

	"github.com/addrstat/addrstat/pkg/binreader"
)

// DoubleArraySignature is the on-disk magic for both trie shapes this
// package understands: the double-array format and the in-memory trie's
// compact save format share 0xABABABAB.
const DoubleArraySignature = 0xABABABAB

// rootIndex is the double-array root node: indices 0 and 1 are reserved.
const rootIndex = 2

// DoubleArrayTrie is a read-only trie backed by the compact double-array
// representation: parallel base/check arrays for node transitions, plus a
// NUL-separated tail pool for suffix compression. It is loaded once from
// disk and never mutated.
type DoubleArrayTrie struct {
	alphabetIndex [256]int16 // byte value -> transition code, -1 if absent
	alphabetBytes []byte     // transition code -> byte value
	base          []int32
	check         []int32
	dataTailOff   []uint32
	dataValue     []uint32
	tail          []byte
}

// Lookup walks the double array from the root, consuming one key byte per
// transition, until it lands on a terminal node (negative base). The
// remaining unconsumed key bytes are then matched against the terminal's
// tail suffix; an exact match (ending exactly at the tail's NUL
// terminator) yields the stored value.
func (d *DoubleArrayTrie) Lookup(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	cur := rootIndex
	data := []byte(key)
	i := 0
	for i < len(data) {
		code := d.alphabetIndex[data[i]]
		if code < 0 {
			return 0, false
		}
		next := int(d.base[cur]) + int(code)
		if next < 0 || next >= len(d.check) || d.check[next] != int32(cur) {
			return 0, false
		}
		cur = next
		i++
		if d.base[cur] < 0 {
			return d.matchTerminal(cur, data[i:])
		}
	}
	if d.base[cur] < 0 {
		return d.matchTerminal(cur, nil)
	}
	return 0, false
}

func (d *DoubleArrayTrie) matchTerminal(node int, rest []byte) (uint32, bool) {
	dataIdx := -d.base[node] - 1
	if dataIdx < 0 || int(dataIdx) >= len(d.dataValue) {
		return 0, false
	}
	off := d.dataTailOff[dataIdx]
	if !d.tailMatches(off, rest) {
		return 0, false
	}
	return d.dataValue[dataIdx], true
}

// tailMatches reports whether rest exactly matches the NUL-terminated
// suffix starting at off in the tail pool (empty rest matches an
// immediate NUL).
func (d *DoubleArrayTrie) tailMatches(off uint32, rest []byte) bool {
	return bytes.Equal(d.tailSuffix(off), rest)
}

// Has reports whether key maps to a value.
func (d *DoubleArrayTrie) Has(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

// All walks the whole structure and returns every (key, value) pair. It
// exists for marker harvesting (affix entries the phrase matcher needs up
// front) rather than the inference hot path.
func (d *DoubleArrayTrie) All() []Pair[uint32] {
	var out []Pair[uint32]
	var walk func(node int, path []byte)
	walk = func(node int, path []byte) {
		if d.base[node] < 0 {
			dataIdx := int(-d.base[node] - 1)
			if dataIdx < 0 || dataIdx >= len(d.dataValue) {
				return
			}
			suffix := d.tailSuffix(d.dataTailOff[dataIdx])
			key := make([]byte, 0, len(path)+len(suffix))
			key = append(key, path...)
			key = append(key, suffix...)
			out = append(out, Pair[uint32]{Key: string(key), Value: d.dataValue[dataIdx]})
			return
		}
		for code, b := range d.alphabetBytes {
			next := int(d.base[node]) + code
			if next < 0 || next >= len(d.check) || d.check[next] != int32(node) {
				continue
			}
			nextPath := make([]byte, len(path)+1)
			copy(nextPath, path)
			nextPath[len(path)] = b
			walk(next, nextPath)
		}
	}
	walk(rootIndex, nil)
	return out
}

// tailSuffix returns the NUL-terminated byte run starting at off.
func (d *DoubleArrayTrie) tailSuffix(off uint32) []byte {
	if int(off) > len(d.tail) {
		return nil
	}
	end := bytes.IndexByte(d.tail[off:], 0)
	if end < 0 {
		end = len(d.tail) - int(off)
	}
	return d.tail[off : int(off)+end]
}

// readDoubleArrayBody parses the double-array payload that follows the
// shared 0xABABABAB signature: alphabet size/bytes, key count, node
// table, data table, tail pool.
func readDoubleArrayBody(r *binreader.Reader) (*DoubleArrayTrie, error) {
	alphabetSize, err := r.U32()
	if err != nil {
		return nil, err
	}
	if alphabetSize > 256 {
		return nil, fmt.Errorf("trie: implausible alphabet size %d", alphabetSize)
	}
	alphabet, err := r.Bytes(int(alphabetSize))
	if err != nil {
		return nil, err
	}

	if _, err := r.U32(); err != nil { // number of keys, informational only
		return nil, err
	}

	numNodes, err := r.U32()
	if err != nil {
		return nil, err
	}
	if remaining, ok := r.Remaining(); ok && uint64(numNodes)*8 > uint64(remaining) {
		return nil, fmt.Errorf("trie: node table of %d nodes exceeds remaining %d bytes", numNodes, remaining)
	}
	base := make([]int32, numNodes)
	check := make([]int32, numNodes)
	for i := uint32(0); i < numNodes; i++ {
		b, err := r.I32()
		if err != nil {
			return nil, err
		}
		c, err := r.I32()
		if err != nil {
			return nil, err
		}
		base[i] = b
		check[i] = c
	}
	if numNodes <= rootIndex {
		return nil, fmt.Errorf("trie: node table too small for root index %d", rootIndex)
	}

	numData, err := r.U32()
	if err != nil {
		return nil, err
	}
	if remaining, ok := r.Remaining(); ok && uint64(numData)*8 > uint64(remaining) {
		return nil, fmt.Errorf("trie: data table of %d entries exceeds remaining %d bytes", numData, remaining)
	}
	tailOff := make([]uint32, numData)
	dataValue := make([]uint32, numData)
	for i := uint32(0); i < numData; i++ {
		off, err := r.U32()
		if err != nil {
			return nil, err
		}
		val, err := r.U32()
		if err != nil {
			return nil, err
		}
		tailOff[i] = off
		dataValue[i] = val
	}

	tailLen, err := r.U32()
	if err != nil {
		return nil, err
	}
	if remaining, ok := r.Remaining(); ok && uint64(tailLen) > uint64(remaining) {
		return nil, fmt.Errorf("trie: tail pool of %d bytes exceeds remaining %d bytes", tailLen, remaining)
	}
	tail, err := r.Bytes(int(tailLen))
	if err != nil {
		return nil, err
	}

	d := &DoubleArrayTrie{base: base, check: check, dataTailOff: tailOff, dataValue: dataValue, tail: tail, alphabetBytes: alphabet}
	for i := range d.alphabetIndex {
		d.alphabetIndex[i] = -1
	}
	for i, b := range alphabet {
		d.alphabetIndex[b] = int16(i)
	}
	return d, nil
}
