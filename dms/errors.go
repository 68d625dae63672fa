package dms

import "errors"

var (
	// ErrManagerNil is returned by NewController when no Manager is given.
	ErrManagerNil = errors.New("dms: manager is nil")

	// ErrInvalidSlot is returned when an active-slot value cannot be parsed.
	ErrInvalidSlot = errors.New("dms: invalid slot")

	// ErrInvalidActivationCode is returned when an activation code has the
	// wrong size.
	ErrInvalidActivationCode = errors.New("dms: invalid activation code")

	// ErrInvalidChecksum is returned when the stored message checksum read
	// from the sign is not a 16-bit value.
	ErrInvalidChecksum = errors.New("dms: invalid message checksum")
)
