//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ThoughtWire/merge-index/diskio"
)

// Buffer is one not-yet-merged batch of index updates: an append-only
// posting log on disk plus an in-memory index over its content. Writes
// append to the log and are immediately visible through the index,
// regardless of flush state; reads never touch the disk. The outer merge
// scheduler drains a buffer through its iterators, then calls Delete once
// everything is durably merged into a segment.
//
// A Buffer exclusively owns its log handle and its index; neither is ever
// shared with another Buffer. Writes take the exclusive lock, reads share.
type Buffer struct {
	sync.RWMutex

	index     *bufferIndex
	commitlog *commitLogger
	path      string
	size      uint64
	lastWrite time.Time
	createdAt time.Time
	logger    logrus.FieldLogger
	metrics   *bufferMetrics
}

// New opens the posting log at path, creating it (and its parent directory)
// if absent, and replays any existing frames into a fresh index. The
// initial Filesize is the log's size after replay. A truncated frame or an
// undecodable batch fails the open with ErrCorrupt; there is no partial
// recovery.
func New(path string, cfg Config, logger logrus.FieldLogger, metrics *Metrics) (*Buffer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create buffer directory")
	}

	b := &Buffer{
		index:     newBufferIndex(),
		path:      path,
		logger:    logger,
		metrics:   newBufferMetrics(metrics, filepath.Dir(path)),
		lastWrite: time.Now(),
		createdAt: time.Now(),
	}

	cl, err := newCommitLogger(path, cfg, b.metrics.flushWrite)
	if err != nil {
		return nil, errors.Wrap(err, "init posting log")
	}
	b.commitlog = cl

	if err := b.replay(); err != nil {
		cl.file.Close()
		return nil, err
	}

	return b, nil
}

func (b *Buffer) replay() error {
	start := time.Now()
	defer b.metrics.replay(start.UnixNano())

	size, err := b.commitlog.fileSize()
	if err != nil {
		return errors.Wrap(err, "stat posting log")
	}

	if size > 0 {
		b.logger.WithField("action", "buffer_replay").
			WithField("path", b.path).
			Debug("replaying existing posting log")
	}

	if _, err := b.commitlog.file.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek posting log start")
	}

	metered := diskio.NewMeteredReader(b.commitlog.file, b.metrics.replayRead)
	if err := newCommitloggerParser(metered, size, b.index).Do(); err != nil {
		b.logger.WithField("action", "buffer_replay_failed").
			WithField("path", b.path).
			Error(errors.Wrap(err, "replay posting log"))
		return errors.Wrap(err, "replay posting log")
	}

	if _, err := b.commitlog.file.Seek(0, io.SeekEnd); err != nil {
		return errors.Wrap(err, "seek posting log end")
	}

	b.size = uint64(size)
	b.metrics.size(b.size)

	return nil
}

// Write appends the batch as one frame to the posting log and mirrors it
// into the index. It returns the number of bytes added to the log, frame
// header included. An empty batch is not special-cased: it still writes a
// valid zero-payload frame. If the append fails the Buffer must be treated
// as suspect, since log and index may no longer agree.
func (b *Buffer) Write(postings []Posting) (int, error) {
	start := time.Now()
	defer b.metrics.write(start.UnixNano())

	b.Lock()
	defer b.Unlock()

	n, err := b.commitlog.append(encodeBatch(postings))
	if err != nil {
		return 0, errors.Wrap(err, "append to posting log")
	}

	b.index.insert(postings)
	b.size += uint64(n)
	b.lastWrite = time.Now()
	b.metrics.size(b.size)

	return n, nil
}

// Info returns how many entries are stored under the exact
// (index, field, term) key. An absent key is zero, not an error.
func (b *Buffer) Info(index, field, term []byte) int {
	start := time.Now()
	defer b.metrics.info(start.UnixNano())

	b.RLock()
	defer b.RUnlock()

	return b.index.count(index, field, term)
}

// Size returns the total entry count across all keys.
func (b *Buffer) Size() int {
	b.RLock()
	defer b.RUnlock()

	return b.index.size()
}

// Filesize returns the logical bytes written through this Buffer, frame
// headers included. It counts bytes still held in the coalescing writer,
// so it is not a filesystem stat.
func (b *Buffer) Filesize() uint64 {
	b.RLock()
	defer b.RUnlock()

	return b.size
}

// Filename returns the posting log path. The outer scheduler derives the
// ".deleted" marker and segment names from it.
func (b *Buffer) Filename() string {
	return b.path
}

func (b *Buffer) ActiveDuration() time.Duration {
	b.RLock()
	defer b.RUnlock()

	return time.Since(b.createdAt)
}

func (b *Buffer) IdleDuration() time.Duration {
	b.RLock()
	defer b.RUnlock()

	return time.Since(b.lastWrite)
}

// Flush forces bytes held by the coalescing writer down to the OS. Batch
// writers call it once per batch instead of paying for a flush per write.
func (b *Buffer) Flush() error {
	b.Lock()
	defer b.Unlock()

	return b.commitlog.flush()
}

// Close flushes and releases the log handle without removing any files.
// The buffer can afterwards be reopened with New, which replays the log.
func (b *Buffer) Close() error {
	b.Lock()
	defer b.Unlock()

	return b.commitlog.close()
}

// Delete destroys the buffer: it drops the index, closes the log handle,
// then removes the log file and its ".deleted" marker. A missing marker is
// success. The Buffer is not valid after Delete.
func (b *Buffer) Delete() error {
	b.Lock()
	defer b.Unlock()

	var errs *multierror.Error

	if err := b.commitlog.close(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "close posting log"))
	}

	if err := b.commitlog.delete(); err != nil {
		errs = multierror.Append(errs, err)
	}

	b.index = nil
	b.metrics.size(0)

	b.logger.WithField("action", "buffer_delete").
		WithField("path", b.path).
		Debug("buffer deleted")

	return errs.ErrorOrNil()
}
