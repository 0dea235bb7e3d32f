//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import "sort"

type iftKey struct {
	index string
	field string
	term  string
}

// bufferIndex is a duplicate-preserving multi-map from IFT key to entries.
// Inserts never merge or overwrite; ordering is imposed at snapshot time,
// not at insertion time. A bufferIndex is owned by exactly one Buffer.
type bufferIndex struct {
	entries map[iftKey][]Entry
	total   int
}

func newBufferIndex() *bufferIndex {
	return &bufferIndex{
		entries: map[iftKey][]Entry{},
	}
}

func (bi *bufferIndex) insert(postings []Posting) {
	for _, p := range postings {
		k := iftKey{index: string(p.Index), field: string(p.Field), term: string(p.Term)}
		bi.entries[k] = append(bi.entries[k], p.entry())
		bi.total++
	}
}

// count returns the number of entries stored under the exact key, zero when
// the key is absent. This is an exact-match lookup, not a prefix scan.
func (bi *bufferIndex) count(index, field, term []byte) int {
	return len(bi.entries[iftKey{index: string(index), field: string(field), term: string(term)}])
}

// size returns the total entry count across all keys.
func (bi *bufferIndex) size() int {
	return bi.total
}

// keys returns every distinct IFT key. Enumeration order is unspecified.
func (bi *bufferIndex) keys() []iftKey {
	out := make([]iftKey, 0, len(bi.entries))
	for k := range bi.entries {
		out = append(out, k)
	}
	return out
}

// snapshotSorted materializes every stored entry as a full posting, ordered
// by the natural ordering of the 6-tuple.
func (bi *bufferIndex) snapshotSorted() []Posting {
	out := make([]Posting, 0, bi.total)
	for k, entries := range bi.entries {
		for _, e := range entries {
			out = append(out, Posting{
				Index:     []byte(k.index),
				Field:     []byte(k.field),
				Term:      []byte(k.term),
				Value:     e.Value,
				Props:     e.Props,
				Timestamp: e.Timestamp,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return comparePostings(out[i], out[j]) < 0
	})

	return out
}

// snapshotForKey materializes the entries under the exact key, ordered by
// (Value, Props, Timestamp). An absent key yields an empty snapshot.
func (bi *bufferIndex) snapshotForKey(index, field, term []byte) []Entry {
	stored := bi.entries[iftKey{index: string(index), field: string(field), term: string(term)}]
	out := make([]Entry, len(stored))
	copy(out, stored)

	sort.Slice(out, func(i, j int) bool {
		return compareEntries(out[i], out[j]) < 0
	})

	return out
}
