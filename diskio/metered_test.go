//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package diskio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeteredReader(t *testing.T) {
	var total int64
	src := bytes.NewReader([]byte("some payload worth metering"))
	r := NewMeteredReader(src, func(read, nanoseconds int64) {
		total += read
	})

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, int64(len(out)), total)
}

func TestMeteredWriter(t *testing.T) {
	var total int64
	dst := &bytes.Buffer{}
	w := NewMeteredWriter(dst, func(written, nanoseconds int64) {
		total += written
	})

	n, err := w.Write([]byte("flushed frame"))
	require.NoError(t, err)
	assert.Equal(t, int64(n), total)
	assert.Equal(t, "flushed frame", dst.String())
}

func TestMeteredReaderNilCallback(t *testing.T) {
	r := NewMeteredReader(bytes.NewReader([]byte("x")), nil)
	_, err := io.ReadAll(r)
	require.NoError(t, err)
}
