//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"github.com/pkg/errors"

	"github.com/ThoughtWire/merge-index/byteops"
)

// Batch payload layout, little-endian throughout (the 4-byte frame header
// around the payload is big-endian, see commitlogger.go):
//
//   uint32 posting count
//   per posting:
//     uint32 length + raw bytes, for each of index, field, term, value
//     uint32 prop count, then per prop: uint16 kind, uint64 value
//     uint64 timestamp

// minEncodedPostingLen is the size of a posting with four empty byte-string
// fields and no props. Used to sanity-check counts before allocating.
const minEncodedPostingLen = 4*byteops.Uint32Len + byteops.Uint32Len + byteops.Uint64Len

const encodedPropLen = byteops.Uint16Len + byteops.Uint64Len

func encodedPostingLen(p Posting) int {
	return 4*byteops.Uint32Len +
		len(p.Index) + len(p.Field) + len(p.Term) + len(p.Value) +
		byteops.Uint32Len + len(p.Props)*encodedPropLen +
		byteops.Uint64Len
}

// encodeBatch serializes an ordered batch of postings into a single payload
// with one allocation. An empty batch encodes to a 4-byte zero count.
func encodeBatch(postings []Posting) []byte {
	size := byteops.Uint32Len
	for _, p := range postings {
		size += encodedPostingLen(p)
	}

	rw := byteops.NewReadWriter(make([]byte, size))
	rw.WriteUint32(uint32(len(postings)))

	for _, p := range postings {
		for _, field := range [][]byte{p.Index, p.Field, p.Term, p.Value} {
			rw.WriteUint32(uint32(len(field)))
			rw.CopyBytesToBuffer(field)
		}

		rw.WriteUint32(uint32(len(p.Props)))
		for _, prop := range p.Props {
			rw.WriteUint16(uint16(prop.Kind))
			rw.WriteUint64(prop.Value)
		}

		rw.WriteUint64(uint64(p.Timestamp))
	}

	return rw.Buffer
}

// decodeBatch parses one frame payload back into its postings. The payload
// is untrusted, so every length field is checked against the remaining
// bytes before it is followed. Decoded byte fields alias the payload.
func decodeBatch(payload []byte) ([]Posting, error) {
	rw := byteops.NewReadWriter(payload)

	if rw.Remaining() < byteops.Uint32Len {
		return nil, errors.Errorf("payload of %d bytes too short for posting count", len(payload))
	}
	count := rw.ReadUint32()

	if uint64(count)*minEncodedPostingLen > rw.Remaining() {
		return nil, errors.Errorf("posting count %d exceeds payload size %d", count, rw.Remaining())
	}

	out := make([]Posting, 0, count)
	for i := 0; i < int(count); i++ {
		p, err := decodePosting(rw)
		if err != nil {
			return nil, errors.Wrapf(err, "decode posting %d of %d", i, count)
		}
		out = append(out, p)
	}

	if rw.Remaining() != 0 {
		return nil, errors.Errorf("%d trailing bytes after batch", rw.Remaining())
	}

	return out, nil
}

func decodePosting(rw *byteops.ReadWriter) (Posting, error) {
	var p Posting

	fields := []struct {
		name string
		into *[]byte
	}{
		{"index", &p.Index},
		{"field", &p.Field},
		{"term", &p.Term},
		{"value", &p.Value},
	}

	for _, f := range fields {
		chunk, err := readChunk(rw)
		if err != nil {
			return p, errors.Wrapf(err, "read %s", f.name)
		}
		*f.into = chunk
	}

	if rw.Remaining() < byteops.Uint32Len {
		return p, errors.New("missing prop count")
	}
	propCount := rw.ReadUint32()

	// the prop list and the timestamp behind it must both fit
	if uint64(propCount)*encodedPropLen+byteops.Uint64Len > rw.Remaining() {
		return p, errors.Errorf("prop count %d exceeds remaining payload %d", propCount, rw.Remaining())
	}

	if propCount > 0 {
		p.Props = make([]Property, propCount)
		for i := range p.Props {
			p.Props[i].Kind = PropertyKind(rw.ReadUint16())
			p.Props[i].Value = rw.ReadUint64()
		}
	}

	p.Timestamp = int64(rw.ReadUint64())

	return p, nil
}

// readChunk reads a uint32 length followed by that many raw bytes.
func readChunk(rw *byteops.ReadWriter) ([]byte, error) {
	if rw.Remaining() < byteops.Uint32Len {
		return nil, errors.New("missing length")
	}

	length := rw.ReadUint32()
	if uint64(length) > rw.Remaining() {
		return nil, errors.Errorf("length %d exceeds remaining payload %d", length, rw.Remaining())
	}

	return rw.ReadBytesFromBuffer(uint64(length)), nil
}
