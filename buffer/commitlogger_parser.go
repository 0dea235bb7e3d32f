//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// commitloggerParser replays a posting log into a buffer index. Frames are
// discovered purely by sequential [length][payload] reads; a clean EOF at a
// frame boundary is the only valid termination. A partial header, a payload
// shorter than its declared length, or an undecodable batch is ErrCorrupt —
// the log's own writer never produces such frames, so they mean external
// truncation or corruption and there is no partial-recovery mode.
type commitloggerParser struct {
	reader    io.Reader
	remaining int64
	index     *bufferIndex
}

func newCommitloggerParser(r io.Reader, size int64, index *bufferIndex) *commitloggerParser {
	return &commitloggerParser{
		reader:    bufio.NewReaderSize(r, 64*1024),
		remaining: size,
		index:     index,
	}
}

func (p *commitloggerParser) Do() error {
	var header [4]byte

	for {
		if _, err := io.ReadFull(p.reader, header[:]); err != nil {
			if err == io.EOF {
				// clean frame boundary
				return nil
			}
			if err == io.ErrUnexpectedEOF {
				return errors.Wrap(ErrCorrupt, "partial frame header")
			}
			return errors.Wrap(err, "read frame header")
		}
		p.remaining -= int64(len(header))

		length := binary.BigEndian.Uint32(header[:])
		if int64(length) > p.remaining {
			// checked before allocating, a corrupt header can declare
			// lengths in the gigabytes
			return errors.Wrapf(ErrCorrupt,
				"frame declares %d payload bytes, only %d remain", length, p.remaining)
		}
		p.remaining -= int64(length)

		payload := make([]byte, length)
		if _, err := io.ReadFull(p.reader, payload); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrapf(ErrCorrupt,
					"frame declares %d payload bytes, log ends early", length)
			}
			return errors.Wrap(err, "read frame payload")
		}

		postings, err := decodeBatch(payload)
		if err != nil {
			return errors.Wrapf(ErrCorrupt, "decode batch: %s", err)
		}

		p.index.insert(postings)
	}
}
