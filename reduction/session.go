// SPDX-License-Identifier: MIT
package reduction

import (
	"time"

	"github.com/google/uuid"
)

// Session describes the most recent fit attempt.
type Session struct {
	ID       uuid.UUID
	Method   Method
	Backend  string // resolved backend name, e.g. "native"
	Elements int
	HighDim  int
	LowDim   int
	Started  time.Time
	Duration time.Duration
	Err      error // nil on success
}

func newSession(m Method, backend string, elems, high, low int) Session {
	return Session{
		ID:       uuid.New(),
		Method:   m,
		Backend:  backend,
		Elements: elems,
		HighDim:  high,
		LowDim:   low,
		Started:  time.Now(),
	}
}
