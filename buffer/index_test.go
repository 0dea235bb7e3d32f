//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferIndexPreservesDuplicates(t *testing.T) {
	bi := newBufferIndex()

	p := testPosting("i", "f", "t", "v", 0)
	bi.insert([]Posting{p, p})
	bi.insert([]Posting{p})

	assert.Equal(t, 3, bi.count([]byte("i"), []byte("f"), []byte("t")))
	assert.Equal(t, 3, bi.size())
	assert.Len(t, bi.snapshotSorted(), 3)
}

func TestBufferIndexCountExactMatchOnly(t *testing.T) {
	bi := newBufferIndex()

	bi.insert([]Posting{testPosting("i", "f", "term", "v", 0)})

	assert.Equal(t, 1, bi.count([]byte("i"), []byte("f"), []byte("term")))
	assert.Equal(t, 0, bi.count([]byte("i"), []byte("f"), []byte("ter")))
	assert.Equal(t, 0, bi.count([]byte("i"), []byte("f"), []byte("terms")))
	assert.Equal(t, 0, bi.count([]byte("i"), []byte("g"), []byte("term")))
}

func TestBufferIndexSnapshotOrderIsInsertionIndependent(t *testing.T) {
	postings := []Posting{
		testPosting("i", "f", "a", "v1", 3),
		testPosting("i", "f", "a", "v1", 1, Property{Kind: 1, Value: 2}),
		testPosting("i", "f", "a", "v2", 2),
		testPosting("i", "f", "b", "v1", 1),
		testPosting("i", "g", "a", "v1", 1),
		testPosting("h", "f", "a", "v1", 1),
	}

	first := newBufferIndex()
	first.insert(postings)

	shuffled := make([]Posting, len(postings))
	copy(shuffled, postings)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second := newBufferIndex()
	for _, p := range shuffled {
		second.insert([]Posting{p})
	}

	assert.Equal(t, first.snapshotSorted(), second.snapshotSorted())
}

func TestBufferIndexSnapshotForKey(t *testing.T) {
	bi := newBufferIndex()

	bi.insert([]Posting{
		testPosting("i", "f", "t", "v2", 1),
		testPosting("i", "f", "t", "v1", 9),
		testPosting("i", "f", "t", "v1", 3),
		testPosting("i", "f", "u", "v0", 0),
	})

	got := bi.snapshotForKey([]byte("i"), []byte("f"), []byte("t"))
	require.Len(t, got, 3)
	assert.Equal(t, []byte("v1"), got[0].Value)
	assert.Equal(t, int64(3), got[0].Timestamp)
	assert.Equal(t, []byte("v1"), got[1].Value)
	assert.Equal(t, int64(9), got[1].Timestamp)
	assert.Equal(t, []byte("v2"), got[2].Value)

	assert.Len(t, bi.snapshotForKey([]byte("i"), []byte("f"), []byte("absent")), 0)
}

func TestComparePostingsPropOrdering(t *testing.T) {
	base := testPosting("i", "f", "t", "v", 0)

	withProp := base
	withProp.Props = []Property{{Kind: 1, Value: 1}}

	withMoreProps := base
	withMoreProps.Props = []Property{{Kind: 1, Value: 1}, {Kind: 1, Value: 2}}

	// no props < some props < more props with equal prefix
	assert.True(t, comparePostings(base, withProp) < 0)
	assert.True(t, comparePostings(withProp, withMoreProps) < 0)
	assert.Equal(t, 0, comparePostings(withProp, withProp))

	laterTs := base
	laterTs.Timestamp = 5
	assert.True(t, comparePostings(base, laterTs) < 0)
}
