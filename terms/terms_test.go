//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestPrefix(t *testing.T) {
	t.Run("shared prefix", func(t *testing.T) {
		out := LongestPrefix([]byte("prefix123"), []byte("prefix999"))
		assert.Equal(t, []byte("prefix"), out)
	})

	t.Run("no previous term returns term unchanged", func(t *testing.T) {
		out := LongestPrefix(nil, []byte("prefix999"))
		assert.Equal(t, []byte("prefix999"), out)
	})

	t.Run("no overlap", func(t *testing.T) {
		out := LongestPrefix([]byte("abc"), []byte("xyz"))
		assert.Len(t, out, 0)
	})

	t.Run("identical terms", func(t *testing.T) {
		out := LongestPrefix([]byte("term"), []byte("term"))
		assert.Equal(t, []byte("term"), out)
	})

	t.Run("previous term is a prefix of term", func(t *testing.T) {
		out := LongestPrefix([]byte("car"), []byte("cargo"))
		assert.Equal(t, []byte("car"), out)
	})
}

func TestEditSignature(t *testing.T) {
	t.Run("equal length", func(t *testing.T) {
		out := EditSignature([]byte("cat"), []byte("car"))
		assert.Equal(t, []byte{0, 0, 1}, out)
	})

	t.Run("identical terms", func(t *testing.T) {
		out := EditSignature([]byte("cat"), []byte("cat"))
		assert.Equal(t, []byte{0, 0, 0}, out)
	})

	t.Run("second term longer emits trailing ones", func(t *testing.T) {
		out := EditSignature([]byte("ca"), []byte("car"))
		assert.Equal(t, []byte{0, 0, 1}, out)
	})

	t.Run("first term longer drops its surplus", func(t *testing.T) {
		out := EditSignature([]byte("car"), []byte("ca"))
		assert.Equal(t, []byte{0, 0}, out)
	})

	t.Run("empty against non-empty", func(t *testing.T) {
		out := EditSignature(nil, []byte("ab"))
		assert.Equal(t, []byte{1, 1}, out)
	})

	t.Run("both empty", func(t *testing.T) {
		out := EditSignature(nil, nil)
		assert.Len(t, out, 0)
	})
}

func TestHashSignature(t *testing.T) {
	t.Run("empty term hashes to zero", func(t *testing.T) {
		assert.Equal(t, uint8(0), HashSignature(nil))
	})

	t.Run("single byte", func(t *testing.T) {
		// acc starts even, so one step is a plain shift-and-xor
		assert.Equal(t, uint8('a'), HashSignature([]byte("a")))
	})

	t.Run("odd accumulator carries a one into the low bit", func(t *testing.T) {
		// after 'a' the accumulator is 97 (odd): (97<<1)+1 = 195, 195^98 = 161
		assert.Equal(t, uint8(161), HashSignature([]byte("ab")))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, HashSignature([]byte("repeatable")), HashSignature([]byte("repeatable")))
	})

	t.Run("overflow stays within 8 bits", func(t *testing.T) {
		long := make([]byte, 1024)
		for i := range long {
			long[i] = byte(i * 31)
		}
		first := HashSignature(long)
		assert.Equal(t, first, HashSignature(long))
	})
}
