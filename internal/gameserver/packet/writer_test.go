package packet

import (
	"bytes"
	"testing"
)

func TestWriteUint16LittleEndian(t *testing.T) {
	w := NewWriter(2)
	w.WriteUint16(0x1234)
	if !bytes.Equal(w.Bytes(), []byte{0x34, 0x12}) {
		t.Errorf("WriteUint16(0x1234) = %v; want [0x34 0x12]", w.Bytes())
	}
}

func TestWriteUint32LittleEndian(t *testing.T) {
	w := NewWriter(4)
	w.WriteUint32(60)
	if !bytes.Equal(w.Bytes(), []byte{0x3C, 0x00, 0x00, 0x00}) {
		t.Errorf("WriteUint32(60) = %v; want [0x3c 0x00 0x00 0x00]", w.Bytes())
	}
}

func TestWriteInt32Negative(t *testing.T) {
	w := NewWriter(4)
	w.WriteInt32(-1)
	if !bytes.Equal(w.Bytes(), []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("WriteInt32(-1) = %v; want [0xff 0xff 0xff 0xff]", w.Bytes())
	}
}

func TestWriteFixedString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  []byte
	}{
		{"short string padded", "hi", 5, []byte{'h', 'i', 0, 0, 0}},
		{"empty string", "", 3, []byte{0, 0, 0}},
		{"exact fit truncated for nul", "abcd", 4, []byte{'a', 'b', 'c', 0}},
		{"overlong truncated", "watermelon", 6, []byte{'w', 'a', 't', 'e', 'r', 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(tt.width)
			w.WriteFixedString(tt.s, tt.width)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("WriteFixedString(%q, %d) = %v; want %v", tt.s, tt.width, w.Bytes(), tt.want)
			}
			if w.Len() != tt.width {
				t.Errorf("Len() = %d; want %d", w.Len(), tt.width)
			}
		})
	}
}

func TestWriterReset(t *testing.T) {
	w := NewWriter(8)
	_ = w.WriteByte(1)
	_ = w.WriteByte(2)
	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Len() after Reset = %d; want 0", w.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter(64)
	_ = w.WriteByte(7)
	w.WriteFixedString("ocean", 32)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint16(512)

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	if err != nil || b != 7 {
		t.Errorf("ReadByte() = %d, %v; want 7, nil", b, err)
	}
	s, err := r.ReadFixedString(32)
	if err != nil || s != "ocean" {
		t.Errorf("ReadFixedString(32) = %q, %v; want \"ocean\", nil", s, err)
	}
	u, err := r.ReadUint32()
	if err != nil || u != 0xDEADBEEF {
		t.Errorf("ReadUint32() = %#08x, %v; want 0xdeadbeef, nil", u, err)
	}
	v, err := r.ReadUint16()
	if err != nil || v != 512 {
		t.Errorf("ReadUint16() = %d, %v; want 512, nil", v, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d; want 0", r.Remaining())
	}
}
