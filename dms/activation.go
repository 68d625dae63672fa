package dms

import (
	"encoding/binary"
	"fmt"
)

// ActivationCodeSize is the length of an encoded activation code.
const ActivationCodeSize = 12

// NoExpiry is the activation duration that keeps a message displayed
// until replaced.
const NoExpiry uint16 = 0xFFFF

// ActivationCode is the dmsActivateMessage record that tells the sign which
// stored slot to display.
//
//	duration(2) | priority(1) | memoryType(1) | column(2) | crc(2) | source(4)
//
// MemoryType and Column must name the target slot and CRC must equal the
// checksum the sign currently stores for it; a stale CRC makes the sign
// ignore the activation.
type ActivationCode struct {
	Duration      uint16
	Priority      uint8
	Slot          SlotID
	CRC           uint16
	SourceAddress uint32
}

// Bytes returns the 12-byte wire form.
func (a ActivationCode) Bytes() []byte {
	b := make([]byte, ActivationCodeSize)
	binary.BigEndian.PutUint16(b[0:2], a.Duration)
	b[2] = a.Priority
	b[3] = byte(a.Slot.Type)
	binary.BigEndian.PutUint16(b[4:6], a.Slot.Column)
	binary.BigEndian.PutUint16(b[6:8], a.CRC)
	binary.BigEndian.PutUint32(b[8:12], a.SourceAddress)

	return b
}

// ParseActivationCode decodes the 12-byte wire form.
func ParseActivationCode(b []byte) (ActivationCode, error) {
	if len(b) != ActivationCodeSize {
		return ActivationCode{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidActivationCode, len(b), ActivationCodeSize)
	}

	return ActivationCode{
		Duration: binary.BigEndian.Uint16(b[0:2]),
		Priority: b[2],
		Slot: SlotID{
			Type:   MemoryType(b[3]),
			Column: binary.BigEndian.Uint16(b[4:6]),
		},
		CRC:           binary.BigEndian.Uint16(b[6:8]),
		SourceAddress: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}
