//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"bufio"
	"encoding/binary"
	"math/rand"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ThoughtWire/merge-index/diskio"
)

// DeletedFileSuffix names the sibling marker file the outer merge scheduler
// creates next to a posting log once the buffer is superseded. The buffer
// itself only ever treats it as another file to remove on Delete.
const DeletedFileSuffix = ".deleted"

const (
	DefaultFlushAfterBytes = 512 * 1024
	DefaultFlushAfterDelay = 2 * time.Second
)

// flushJitterFraction bounds the random perturbation applied to both flush
// thresholds at open time. Many buffers are opened together across a
// sharded index; identical thresholds would synchronize their flush timers
// into periodic I/O bursts.
const flushJitterFraction = 0.1

// Config carries the write-coalescing thresholds for one posting log. Both
// are jittered independently by up to ±10% when the log is opened. The
// thresholds only affect when bytes reach stable storage, never the
// visibility of writes through the in-memory index.
type Config struct {
	// FlushAfterBytes is how many buffered bytes accumulate before they are
	// flushed to the file.
	FlushAfterBytes int

	// FlushAfterDelay is the longest an appended frame stays buffered
	// before the next append forces a flush.
	FlushAfterDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.FlushAfterBytes <= 0 {
		c.FlushAfterBytes = DefaultFlushAfterBytes
	}
	if c.FlushAfterDelay <= 0 {
		c.FlushAfterDelay = DefaultFlushAfterDelay
	}
	return c
}

// commitLogger owns the append end of a posting log: an append-only file of
// [4-byte big-endian length][payload] frames with no separators, header or
// checksum. Frame boundaries on replay are discovered purely by sequential
// reads.
type commitLogger struct {
	file       *os.File
	writer     *bufio.Writer
	path       string
	flushDelay time.Duration
	lastFlush  time.Time
}

func newCommitLogger(path string, cfg Config, onFlush diskio.MeteredWriterCallback) (*commitLogger, error) {
	cfg = cfg.withDefaults()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}

	cl := &commitLogger{
		file:       f,
		path:       path,
		flushDelay: time.Duration(jittered(int64(cfg.FlushAfterDelay))),
		lastFlush:  time.Now(),
	}
	cl.writer = bufio.NewWriterSize(diskio.NewMeteredWriter(f, onFlush),
		int(jittered(int64(cfg.FlushAfterBytes))))

	return cl, nil
}

// jittered perturbs n by a bounded random factor so sibling buffers sharing
// the same base thresholds do not flush in lockstep.
func jittered(n int64) int64 {
	factor := 1 + flushJitterFraction*(2*rand.Float64()-1)
	return int64(float64(n) * factor)
}

// append writes one frame and returns the number of bytes added to the log,
// frame header included. The bytes may still sit in the coalescing writer
// afterwards; the time threshold is checked here so an idle log does not
// hold frames back indefinitely across appends.
func (cl *commitLogger) append(payload []byte) (int, error) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := cl.writer.Write(header[:]); err != nil {
		return 0, errors.Wrap(err, "write frame header")
	}

	if _, err := cl.writer.Write(payload); err != nil {
		return 0, errors.Wrap(err, "write frame payload")
	}

	if time.Since(cl.lastFlush) >= cl.flushDelay {
		if err := cl.flush(); err != nil {
			return 0, errors.Wrap(err, "flush posting log")
		}
	}

	return len(header) + len(payload), nil
}

func (cl *commitLogger) flush() error {
	if err := cl.writer.Flush(); err != nil {
		return err
	}

	cl.lastFlush = time.Now()
	return nil
}

func (cl *commitLogger) close() error {
	if err := cl.writer.Flush(); err != nil {
		return err
	}

	return cl.file.Close()
}

// delete removes the log file and its ".deleted" marker. Absence of either
// file is success; the marker only exists when the outer scheduler has
// already superseded this buffer.
func (cl *commitLogger) delete() error {
	var errs *multierror.Error

	for _, path := range []string{cl.path, cl.path + DeletedFileSuffix} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = multierror.Append(errs, errors.Wrapf(err, "remove %s", path))
		}
	}

	return errs.ErrorOrNil()
}

func (cl *commitLogger) fileSize() (int64, error) {
	stat, err := cl.file.Stat()
	if err != nil {
		return 0, err
	}

	return stat.Size(), nil
}
