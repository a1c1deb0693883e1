// Package binreader implements big-endian primitive reads over a byte
// stream, the shared wire format for every on-disk resource the parser
// loads (tries, CRF models, the dictionary passthrough format).
package binreader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNotPermitted is returned for caller-side contract violations, such as
// requesting a negative-length read.
var ErrNotPermitted = errors.New("binreader: not permitted")

// Reader wraps an io.Reader and tracks the byte offset consumed so far,
// so load-time errors can report "truncated at offset N".
type Reader struct {
	r      io.Reader
	offset int64
}

// New wraps r for big-endian reads.
func New(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining reports the number of unread bytes, when the underlying
// reader exposes a length (e.g. *bytes.Reader); ok is false otherwise.
// Callers use this to sanity-check a size field against the bytes
// actually available before allocating a slice of that size.
func (r *Reader) Remaining() (n int, ok bool) {
	if br, ok := r.r.(*bytes.Reader); ok {
		return br.Len(), true
	}
	return 0, false
}

func (r *Reader) fill(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("binreader: truncated at offset %d: %w", r.offset, io.ErrUnexpectedEOF)
		}
		return fmt.Errorf("binreader: read failed at offset %d: %w", r.offset, err)
	}
	return nil
}

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	var buf [1]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() (uint16, error) {
	var buf [2]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	var buf [4]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// I32 reads a big-endian int32 (two's complement), used for double-array
// trie base/check cells where a negative base marks a terminal node.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() (uint64, error) {
	var buf [8]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// F32 reads an IEEE-754 big-endian float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads an IEEE-754 big-endian float64.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNotPermitted
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if err := r.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// String reads a u32 length prefix followed by that many raw UTF-8 bytes.
func (r *Reader) String() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Signature reads and checks a 4-byte magic header, returning a wrapped
// error naming both the expected and observed value on mismatch.
func (r *Reader) Signature(want uint32) error {
	got, err := r.U32()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("binreader: invalid signature: want 0x%08X, got 0x%08X", want, got)
	}
	return nil
}
