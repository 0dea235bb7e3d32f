//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

// Package terms provides cheap byte-level comparison primitives for index
// terms: shared-prefix extraction for prefix-compressed term dictionaries,
// and two approximate signatures used to short-circuit full term
// comparisons during merges.
package terms

// LongestPrefix returns the longest common leading byte sequence of prev
// and term. A nil prev means "no previous term", in which case term is
// returned unchanged. Callers walk terms in sorted order and compress each
// against its predecessor, so the first term of a run has no predecessor.
func LongestPrefix(prev, term []byte) []byte {
	if prev == nil {
		return term
	}

	n := len(prev)
	if len(term) < n {
		n = len(term)
	}

	i := 0
	for i < n && prev[i] == term[i] {
		i++
	}

	return term[:i]
}

// EditSignature compares a and b position by position and returns one bit
// per position of the shorter input, 0 where the bytes match and 1 where
// they differ. When b is longer, each surplus byte of b contributes one
// extra 1 bit. Surplus bytes of a contribute nothing. Bits are returned
// unpacked, one byte element per bit.
//
// The asymmetry is deliberate and load-bearing: callers only ever compare
// a term against a successor of equal or greater length.
func EditSignature(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	size := n
	if len(b) > len(a) {
		size += len(b) - len(a)
	}

	out := make([]byte, 0, size)
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			out = append(out, 0)
		} else {
			out = append(out, 1)
		}
	}

	for i := len(a); i < len(b); i++ {
		out = append(out, 1)
	}

	return out
}

// HashSignature folds term into a single byte. Each step shifts the
// accumulator left within 8 bits, carrying a 1 into the low bit when the
// accumulator was odd, then XORs in the next input byte. The empty term
// hashes to 0.
func HashSignature(term []byte) uint8 {
	var acc uint8
	for _, c := range term {
		if acc%2 == 0 {
			acc = (acc << 1) ^ c
		} else {
			acc = ((acc << 1) + 1) ^ c
		}
	}

	return acc
}
