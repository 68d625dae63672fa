// Package link owns the serial line to a sign for the duration of one
// request/response cycle.
//
// A [Session] is opened from an immutable [Config], sends one framed request
// and drains the reply, then is closed. The reply is not delimited by length
// or flag: after sending, the session waits a fixed response delay for the
// sign to process the request and then reads until the line stays idle for
// one poll interval.
//
// # Timing fragility
//
// Idle-based draining is what deployed signs are tuned for and is kept as
// is. A sign that pauses longer than the poll interval in the middle of a
// reply yields a truncated frame; a response delay that is too long only
// adds latency. Tune [WithResponseDelay] and [WithPollInterval] per device.
//
// # Ownership
//
// A session has exclusive use of its port. Opening a second session on the
// same port name within the process blocks until the first one is closed.
// Sessions are not safe for concurrent use.
package link
