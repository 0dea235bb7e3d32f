//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import "errors"

var (
	// Exhausted is returned by Next once an iterator has yielded its last
	// element. It keeps being returned on every further pull.
	Exhausted = errors.New("iterator exhausted")

	// ErrCorrupt indicates replay of a posting log hit a truncated frame or
	// an undecodable batch payload. There is no partial-recovery mode; the
	// caller decides whether to discard the file or repair it externally.
	ErrCorrupt = errors.New("posting log corrupt")
)
