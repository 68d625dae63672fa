// Package pmpp implements the link-layer envelope that carries one SNMP
// message between the controller and a sign over a serial line.
//
// A frame on the wire is:
//
//	[Flag 0x7E][Address(3)][Payload(n)][Checksum(2)][Flag 0x7E]
//
// The checksum is computed over Address|Payload by a [crc.Engine].
//
// # Known limitations
//
// Payload bytes are not escaped. A payload containing 0x7E produces a frame
// whose in-band byte looks like a flag; this package relies on the receiver
// being delay-delimited rather than flag-delimited. [ContainsFlag] lets
// callers detect and report the condition.
//
// [Decode] mirrors the deployed controllers: it strips the envelope without
// checking flags or checksum. [DecodeVerified] is the hardened variant and
// is opt-in.
package pmpp
