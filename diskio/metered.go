//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

// Package diskio wraps readers and writers so the embedding process can
// observe the raw disk traffic of posting log replay and flushing.
package diskio

import (
	"io"
	"time"
)

type MeteredReaderCallback func(read int64, nanoseconds int64)

type MeteredWriterCallback func(written int64, nanoseconds int64)

type MeteredReader struct {
	r  io.Reader
	cb MeteredReaderCallback
}

func NewMeteredReader(r io.Reader, cb MeteredReaderCallback) *MeteredReader {
	return &MeteredReader{r: r, cb: cb}
}

// Read passes through to the underlying reader. On success it reports the
// byte count and elapsed time to the callback, if one is set.
func (m *MeteredReader) Read(p []byte) (int, error) {
	start := time.Now()
	n, err := m.r.Read(p)
	if err != nil {
		return n, err
	}

	if m.cb != nil {
		m.cb(int64(n), time.Since(start).Nanoseconds())
	}

	return n, nil
}

type MeteredWriter struct {
	w  io.Writer
	cb MeteredWriterCallback
}

func NewMeteredWriter(w io.Writer, cb MeteredWriterCallback) *MeteredWriter {
	return &MeteredWriter{w: w, cb: cb}
}

// Write passes through to the underlying writer, reporting successful
// writes to the callback, if one is set.
func (m *MeteredWriter) Write(p []byte) (int, error) {
	start := time.Now()
	n, err := m.w.Write(p)
	if err != nil {
		return n, err
	}

	if m.cb != nil {
		m.cb(int64(n), time.Since(start).Nanoseconds())
	}

	return n, nil
}
