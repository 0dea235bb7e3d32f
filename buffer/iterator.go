//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"bytes"
	"time"
)

// TermSize restricts a range scan to terms of one exact byte length,
// supporting fixed-width scans such as date-bucketed terms.
type TermSize int

// AnyTermSize disables length filtering.
const AnyTermSize TermSize = -1

// Iterator walks a frozen snapshot of every posting in the buffer, sorted
// by the full 6-tuple. The snapshot is taken eagerly at creation and merely
// walked lazily: writes after creation are not visible, and the iterator is
// finite, forward-only and single-use.
type Iterator struct {
	data    []Posting
	current int
}

// Next returns the next posting, or Exhausted once the snapshot is drained.
// An exhausted iterator stays exhausted.
func (it *Iterator) Next() (Posting, error) {
	if it.current >= len(it.data) {
		return Posting{}, Exhausted
	}

	p := it.data[it.current]
	it.current++
	return p, nil
}

// EntryIterator walks the entries of one exact IFT key, sorted by
// (Value, Props, Timestamp), under the same snapshot and single-use
// contract as Iterator.
type EntryIterator struct {
	term    []byte
	data    []Entry
	current int
}

// Term returns the term this iterator is scoped to, so the merge process
// can pair each range iterator with its key.
func (it *EntryIterator) Term() []byte {
	return it.term
}

func (it *EntryIterator) Next() (Entry, error) {
	if it.current >= len(it.data) {
		return Entry{}, Exhausted
	}

	e := it.data[it.current]
	it.current++
	return e, nil
}

// Iterator returns a full-buffer iterator over the sorted snapshot of all
// postings.
func (b *Buffer) Iterator() *Iterator {
	start := time.Now()
	defer b.metrics.iterator(start.UnixNano())

	b.RLock()
	defer b.RUnlock()

	return &Iterator{data: b.index.snapshotSorted()}
}

// KeyIterator returns an iterator over the entries of one exact key. An
// absent key yields an immediately exhausted iterator, not an error.
func (b *Buffer) KeyIterator(index, field, term []byte) *EntryIterator {
	start := time.Now()
	defer b.metrics.iterator(start.UnixNano())

	b.RLock()
	defer b.RUnlock()

	return &EntryIterator{
		term: term,
		data: b.index.snapshotForKey(index, field, term),
	}
}

// RangeIterators returns one iterator per distinct key whose index and
// field match exactly and whose term lies in [startTerm, endTerm] under
// byte-lexicographic order. A size other than AnyTermSize further restricts
// to terms of exactly that byte length. Entries within each iterator are
// sorted; the order across iterators follows key enumeration and is
// unspecified.
func (b *Buffer) RangeIterators(index, field, startTerm, endTerm []byte, size TermSize) []*EntryIterator {
	start := time.Now()
	defer b.metrics.iterator(start.UnixNano())

	b.RLock()
	defer b.RUnlock()

	var out []*EntryIterator
	for _, k := range b.index.keys() {
		if !bytes.Equal([]byte(k.index), index) || !bytes.Equal([]byte(k.field), field) {
			continue
		}

		term := []byte(k.term)
		if bytes.Compare(term, startTerm) < 0 || bytes.Compare(term, endTerm) > 0 {
			continue
		}

		if size != AnyTermSize && len(term) != int(size) {
			continue
		}

		out = append(out, &EntryIterator{
			term: term,
			data: b.index.snapshotForKey(index, field, term),
		})
	}

	return out
}
