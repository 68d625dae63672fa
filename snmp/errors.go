package snmp

import "errors"

var (
	// ErrProtocol is returned when a reply cannot be decoded or does not
	// bind the requested object.
	ErrProtocol = errors.New("snmp: protocol error")

	// ErrDeviceRejection is returned when the sign answers but refuses the
	// operation (non-zero error-status, or an empty echo of a SET).
	ErrDeviceRejection = errors.New("snmp: device rejected request")

	// ErrInvalidOID is returned when an object identifier cannot be parsed.
	ErrInvalidOID = errors.New("snmp: invalid object identifier")

	// ErrValueKind is returned when a value is read as the wrong kind.
	ErrValueKind = errors.New("snmp: unexpected value kind")
)
