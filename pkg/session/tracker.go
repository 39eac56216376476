package session

import (
	"sync/atomic"

	"github.com/matzehuels/stemma/pkg/errors"
)

// ErrSuperseded is returned by Load when its ticket went stale.
var ErrSuperseded = errors.New(errors.ErrCodeSuperseded, "load superseded by a newer one")

// Tracker is a monotonically increasing generation counter owned by the
// caller. It is safe for concurrent use.
type Tracker struct {
	gen atomic.Uint64
}

// Next starts a new generation and returns its ticket. Every earlier
// ticket becomes stale.
func (t *Tracker) Next() Ticket {
	return Ticket{gen: t.gen.Add(1), tracker: t}
}

// Generation returns the current generation.
func (t *Tracker) Generation() uint64 { return t.gen.Load() }

// Ticket identifies one generation of a [Tracker].
type Ticket struct {
	gen     uint64
	tracker *Tracker
}

// Generation returns the ticket's generation.
func (k Ticket) Generation() uint64 { return k.gen }

// Current reports whether no newer ticket was issued. The zero Ticket is
// always current.
func (k Ticket) Current() bool {
	return k.tracker == nil || k.tracker.gen.Load() == k.gen
}

// Check returns [ErrSuperseded] for a stale ticket.
func (k Ticket) Check() error {
	if !k.Current() {
		return ErrSuperseded
	}
	return nil
}
