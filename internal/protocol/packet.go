// Package protocol implements the framed message layer shared by the stream
// and datagram transports.
//
// Every message begins with a 4-byte header: type (u8), client id (u8) and
// body length (u16, little-endian). The body length does not include the
// header. Bodies are fixed-width binary; see the clientpackets and
// serverpackets packages for the per-type layouts.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/udisondev/drawguess/internal/constants"
)

// ErrMalformed reports a frame that violates the header contract. On a stream
// it is fatal to the session; a malformed datagram is dropped.
var ErrMalformed = errors.New("malformed frame")

// Header is the 4-byte preamble carried by every message on both transports.
//
// The client id means different things per direction: inbound stream frames
// are attributed by connection and the field is ignored, inbound datagrams
// are attributed by it, and on outbound frames it is zero except for
// GAME_START (recipient id) and ERROR (requester id).
type Header struct {
	Type     byte
	ClientID byte
	DataLen  uint16
}

// ParseHeader decodes a header from the first PacketHeaderSize bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < constants.PacketHeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrMalformed, constants.PacketHeaderSize, len(b))
	}
	h := Header{
		Type:     b[0],
		ClientID: b[1],
		DataLen:  binary.LittleEndian.Uint16(b[2:4]),
	}
	if h.DataLen > constants.MaxDataLen {
		return Header{}, fmt.Errorf("%w: body length %d exceeds %d", ErrMalformed, h.DataLen, constants.MaxDataLen)
	}
	return h, nil
}

// PutHeader encodes h into the first PacketHeaderSize bytes of b.
func PutHeader(b []byte, h Header) {
	b[0] = h.Type
	b[1] = h.ClientID
	binary.LittleEndian.PutUint16(b[2:4], h.DataLen)
}

// ReadMessage reads one framed message from r. The body is read into buf and
// returned as a subslice of it, so the caller owns the bytes only until the
// next call with the same buffer.
func ReadMessage(r io.Reader, buf []byte) (Header, []byte, error) {
	var hdr [constants.PacketHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, nil, fmt.Errorf("reading message header: %w", err)
	}

	h, err := ParseHeader(hdr[:])
	if err != nil {
		return Header{}, nil, err
	}

	if int(h.DataLen) > len(buf) {
		return Header{}, nil, fmt.Errorf("%w: body length %d exceeds buffer %d", ErrMalformed, h.DataLen, len(buf))
	}

	body := buf[:h.DataLen]
	if _, err := io.ReadFull(r, body); err != nil {
		return Header{}, nil, fmt.Errorf("reading message body: %w", err)
	}
	return h, body, nil
}

// ParseDatagram splits a raw datagram into header and body. Extra trailing
// bytes beyond the declared body length are tolerated and ignored, matching
// what lossy senders have historically put on the wire.
func ParseDatagram(b []byte) (Header, []byte, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return Header{}, nil, err
	}
	body := b[constants.PacketHeaderSize:]
	if int(h.DataLen) > len(body) {
		return Header{}, nil, fmt.Errorf("%w: datagram declares %d body bytes, carries %d", ErrMalformed, h.DataLen, len(body))
	}
	return h, body[:h.DataLen], nil
}
