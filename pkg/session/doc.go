// Package session orchestrates one load-and-render cycle.
//
// A [Session] owns a rendering surface. [Session.Load] fetches the
// description text, parses and adapts it, computes a chord layout when
// asked to, and hands draw instructions to the surface:
//
//	Idle → Fetching → Adapting → Clustering → Emitting → Done
//	                                                   ↘ Failed
//
// Clustering only happens for [StyleChord]; stemma diagrams consume the
// coordinates already in the description.
//
// # Clear Then Emit
//
// The surface is cleared only once new geometry is ready. A fetch, parse
// or layout failure leaves the previous drawing untouched.
//
// # Superseded Loads
//
// Loads on one surface are serialized by the caller. To drop the result of
// a slow load that a newer one overtook, take a [Ticket] from a shared
// [Tracker] per load; a stale ticket makes Load return [ErrSuperseded]
// before the surface is touched:
//
//	tracker := &session.Tracker{}
//	ticket := tracker.Next()
//	res, err := s.Load(ctx, session.Request{Source: src, Ticket: &ticket})
//	if errors.Is(err, session.ErrSuperseded) {
//	    return // a newer load owns the surface
//	}
//
// # Observers
//
// [Session.Subscribe] registers a callback that receives every state
// transition, replacing any document-wide event bus.
package session
