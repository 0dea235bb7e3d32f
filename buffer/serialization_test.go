//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRoundTrip(t *testing.T) {
	batch := []Posting{
		testPosting("idx", "body", "cat", "doc-1", 42,
			Property{Kind: 1, Value: 3}, Property{Kind: 2, Value: 1 << 40}),
		testPosting("idx", "body", "dog", "doc-2", 0),
	}

	decoded, err := decodeBatch(encodeBatch(batch))
	require.NoError(t, err)
	assert.Equal(t, batch, decoded)
}

func TestEncodeEmptyBatch(t *testing.T) {
	payload := encodeBatch(nil)
	assert.Len(t, payload, 4)

	decoded, err := decodeBatch(payload)
	require.NoError(t, err)
	assert.Len(t, decoded, 0)
}

func TestDecodeBatchTruncated(t *testing.T) {
	payload := encodeBatch([]Posting{testPosting("i", "f", "t", "v", 1)})

	for _, cut := range []int{len(payload) - 1, len(payload) / 2, 3} {
		_, err := decodeBatch(payload[:cut])
		assert.Error(t, err, "cut at %d must fail", cut)
	}
}

func TestDecodeBatchTrailingBytes(t *testing.T) {
	payload := encodeBatch([]Posting{testPosting("i", "f", "t", "v", 1)})
	payload = append(payload, 0xde, 0xad)

	_, err := decodeBatch(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}

func TestDecodeBatchAbsurdCounts(t *testing.T) {
	t.Run("posting count beyond payload", func(t *testing.T) {
		_, err := decodeBatch([]byte{0xff, 0xff, 0xff, 0xff})
		require.Error(t, err)
	})

	t.Run("field length beyond payload", func(t *testing.T) {
		// one posting whose index field claims 2^31 bytes
		payload := []byte{
			0x01, 0x00, 0x00, 0x00, // posting count 1
			0x00, 0x00, 0x00, 0x80, // index length, absurd
		}
		_, err := decodeBatch(payload)
		require.Error(t, err)
	})
}
