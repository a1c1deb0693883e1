package binreader

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer is the big-endian mirror of Reader, used by the in-memory trie's
// compact save format and by tests that round-trip fixtures.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for big-endian writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) write(buf []byte) error {
	_, err := w.w.Write(buf)
	return err
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) error {
	return w.write([]byte{v})
}

// U16 writes a big-endian uint16.
func (w *Writer) U16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.write(buf[:])
}

// U32 writes a big-endian uint32.
func (w *Writer) U32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.write(buf[:])
}

// I32 writes a big-endian int32.
func (w *Writer) I32(v int32) error {
	return w.U32(uint32(v))
}

// U64 writes a big-endian uint64.
func (w *Writer) U64(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return w.write(buf[:])
}

// F32 writes an IEEE-754 big-endian float32.
func (w *Writer) F32(v float32) error {
	return w.U32(math.Float32bits(v))
}

// F64 writes an IEEE-754 big-endian float64.
func (w *Writer) F64(v float64) error {
	return w.U64(math.Float64bits(v))
}

// Bytes writes raw bytes with no length prefix.
func (w *Writer) Bytes(b []byte) error {
	return w.write(b)
}

// String writes a u32 length prefix followed by the raw UTF-8 bytes.
func (w *Writer) String(s string) error {
	if err := w.U32(uint32(len(s))); err != nil {
		return err
	}
	return w.write([]byte(s))
}

// Signature writes a 4-byte magic header.
func (w *Writer) Signature(sig uint32) error {
	return w.U32(sig)
}
