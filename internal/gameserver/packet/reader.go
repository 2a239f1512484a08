package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Reader provides methods for reading message body data.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new body reader.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadUint32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadInt32 reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt32() (int32, error) {
	val, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("ReadInt32: %w", err)
	}
	return int32(val), nil
}

// ReadFixedString reads an n-byte field and returns the content before the
// first NUL byte. Fields with no NUL use the full width.
func (r *Reader) ReadFixedString(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("ReadFixedString: negative width %d", n)
	}
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("ReadFixedString: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}

	field := r.data[r.pos : r.pos+n]
	r.pos += n

	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field), nil
}

// ReadBytes reads n bytes (ZERO-COPY — returns subslice of internal data).
// Caller must not modify the returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
