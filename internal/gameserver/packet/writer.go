package packet

import (
	"bytes"
	"sync"
)

// Writer provides methods for writing message data.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer with Reset() called, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 512)),
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new message writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteUint16 writes a uint16 (2 bytes, LE).
// Optimized: manual encoding instead of binary.Write.
func (w *Writer) WriteUint16(val uint16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteUint32 writes a uint32 (4 bytes, LE).
// Optimized: manual encoding instead of binary.Write.
func (w *Writer) WriteUint32(val uint32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteInt32 writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt32(val int32) {
	w.WriteUint32(uint32(val))
}

// WriteFixedString writes s into an n-byte field, NUL-padded. Content longer
// than n-1 bytes is truncated so the field always carries a terminator.
func (w *Writer) WriteFixedString(s string, n int) {
	if len(s) > n-1 {
		s = s[:n-1]
	}
	w.buf.WriteString(s)
	for i := len(s); i < n; i++ {
		w.buf.WriteByte(0)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated message data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the message.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}
