//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

// Package byteops writes fixed-width little-endian values into a
// preallocated buffer at a running position. Callers size the buffer up
// front, which keeps batch encoding to a single allocation.
package byteops

import "encoding/binary"

const (
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
)

type ReadWriter struct {
	Position uint64
	Buffer   []byte
}

func NewReadWriter(buf []byte) *ReadWriter {
	return &ReadWriter{Buffer: buf}
}

func (rw *ReadWriter) WriteUint16(value uint16) {
	rw.Position += Uint16Len
	binary.LittleEndian.PutUint16(rw.Buffer[rw.Position-Uint16Len:rw.Position], value)
}

func (rw *ReadWriter) WriteUint32(value uint32) {
	rw.Position += Uint32Len
	binary.LittleEndian.PutUint32(rw.Buffer[rw.Position-Uint32Len:rw.Position], value)
}

func (rw *ReadWriter) WriteUint64(value uint64) {
	rw.Position += Uint64Len
	binary.LittleEndian.PutUint64(rw.Buffer[rw.Position-Uint64Len:rw.Position], value)
}

// CopyBytesToBuffer copies raw bytes at the current position. The buffer
// must have been sized to fit them.
func (rw *ReadWriter) CopyBytesToBuffer(b []byte) {
	rw.Position += uint64(len(b))
	copy(rw.Buffer[rw.Position-uint64(len(b)):rw.Position], b)
}

func (rw *ReadWriter) ReadUint16() uint16 {
	rw.Position += Uint16Len
	return binary.LittleEndian.Uint16(rw.Buffer[rw.Position-Uint16Len : rw.Position])
}

func (rw *ReadWriter) ReadUint32() uint32 {
	rw.Position += Uint32Len
	return binary.LittleEndian.Uint32(rw.Buffer[rw.Position-Uint32Len : rw.Position])
}

func (rw *ReadWriter) ReadUint64() uint64 {
	rw.Position += Uint64Len
	return binary.LittleEndian.Uint64(rw.Buffer[rw.Position-Uint64Len : rw.Position])
}

// ReadBytesFromBuffer returns the next length bytes as a subslice. Memory
// is shared with the underlying buffer; callers that outlive it must copy.
func (rw *ReadWriter) ReadBytesFromBuffer(length uint64) []byte {
	rw.Position += length
	return rw.Buffer[rw.Position-length : rw.Position]
}

// Remaining reports how many bytes are left between the current position
// and the end of the buffer. Callers check it before reading when the
// buffer content is untrusted.
func (rw *ReadWriter) Remaining() uint64 {
	return uint64(len(rw.Buffer)) - rw.Position
}
