//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

// Package buffer implements the write-buffer tier of the merge index: an
// append-only, crash-recoverable posting log paired with an in-memory
// duplicate-preserving index that gives immediate sorted visibility of
// not-yet-merged postings. The outer merge scheduler drains a buffer
// through its iterators and deletes it once the content is durably merged
// into an immutable segment.
package buffer

import "bytes"

// PropertyKind tags one piece of positional metadata attached to a posting,
// e.g. a word position or an offset. The buffer does not interpret it.
type PropertyKind uint16

// Property is one (kind, value) pair of posting metadata.
type Property struct {
	Kind  PropertyKind
	Value uint64
}

// Posting is the atomic record of the index. Index, Field and Term form the
// composite key; Value identifies the indexed document; Props carries
// ordered positional metadata; Timestamp is caller-supplied and only used
// by the outer system for conflict resolution. Postings are immutable once
// written, and exact duplicates are legal and preserved.
type Posting struct {
	Index     []byte
	Field     []byte
	Term      []byte
	Value     []byte
	Props     []Property
	Timestamp int64
}

// Entry is the per-key remainder of a posting, i.e. everything below the
// (Index, Field, Term) key.
type Entry struct {
	Value     []byte
	Props     []Property
	Timestamp int64
}

func (p Posting) entry() Entry {
	return Entry{Value: p.Value, Props: p.Props, Timestamp: p.Timestamp}
}

// comparePostings orders by the natural ordering of the full 6-tuple:
// byte-lexicographic on Index, Field, Term and Value, structural on Props,
// then numeric on Timestamp. The order is total, so sorted snapshots are
// reproducible regardless of insertion order.
func comparePostings(a, b Posting) int {
	if c := bytes.Compare(a.Index, b.Index); c != 0 {
		return c
	}
	if c := bytes.Compare(a.Field, b.Field); c != 0 {
		return c
	}
	if c := bytes.Compare(a.Term, b.Term); c != 0 {
		return c
	}
	return compareEntries(a.entry(), b.entry())
}

func compareEntries(a, b Entry) int {
	if c := bytes.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := compareProps(a.Props, b.Props); c != 0 {
		return c
	}
	switch {
	case a.Timestamp < b.Timestamp:
		return -1
	case a.Timestamp > b.Timestamp:
		return 1
	default:
		return 0
	}
}

func compareProps(a, b []Property) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		switch {
		case a[i].Kind < b[i].Kind:
			return -1
		case a[i].Kind > b[i].Kind:
			return 1
		case a[i].Value < b[i].Value:
			return -1
		case a[i].Value > b[i].Value:
			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
