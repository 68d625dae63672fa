// Package dms drives the NTCIP 1203 message workflow of a Dynamic Message
// Sign: reading what is displayed, storing a new message in a slot and
// activating it.
//
// Every operation is a sequence of independent SNMP operations issued
// through a [Manager]; nothing below this package knows about signs. The
// sequences are not atomic. A failure part way through [Controller.Write]
// leaves the slot partially updated and not activated, with no rollback.
//
// The exported boolean/zero-value methods (ReadCurrentMessage, ActivateSlot,
// WriteMessage) collapse every error at their boundary, which is the
// contract deployed callers rely on. The error-returning variants
// (ReadCurrentMessageErr, Activate, WriteMessageErr) expose the cause.
package dms
