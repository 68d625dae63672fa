package pmpp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/internal/util"
)

// Flag is the start and end marker of every frame.
const Flag byte = 0x7E

// AddressSize is the length of the device address field.
const AddressSize = 3

// headerSize covers the leading flag and the address.
const headerSize = 1 + AddressSize

// trailerSize covers the checksum and the closing flag.
const trailerSize = crc.Size + 1

// MinFrameSize is the length of a frame with an empty payload.
const MinFrameSize = headerSize + trailerSize

// Address is the fixed 3-byte device address of a sign.
type Address [AddressSize]byte

// DefaultAddress is the address hard-wired in deployed sign controllers.
var DefaultAddress = Address{0x05, 0x13, 0xC1}

func (a Address) String() string {
	return util.HexString(a[:])
}

var (
	// ErrMalformedFrame is returned when a received byte run is too short
	// to be a frame.
	ErrMalformedFrame = errors.New("pmpp: malformed frame")

	// ErrBadFlag is returned by DecodeVerified when a frame does not start
	// and end with Flag.
	ErrBadFlag = errors.New("pmpp: missing frame flag")

	// ErrChecksumMismatch is returned by DecodeVerified when the trailing
	// checksum does not match the computed one.
	ErrChecksumMismatch = errors.New("pmpp: checksum mismatch")
)

// Frame is the decoded form of a PMPP frame.
type Frame struct {
	Address  Address
	Payload  []byte
	Checksum [crc.Size]byte
}

// Pack serializes the frame, computing its checksum with engine. The
// Checksum field is updated with the computed value.
func (f *Frame) Pack(engine crc.Engine) []byte {
	wire := make([]byte, 0, MinFrameSize+len(f.Payload))
	wire = append(wire, Flag)
	wire = append(wire, f.Address[:]...)
	wire = append(wire, f.Payload...)

	f.Checksum = engine.Compute(wire[1:])
	wire = append(wire, f.Checksum[:]...)
	wire = append(wire, Flag)

	return wire
}

// Encode wraps payload in a frame addressed to address.
func Encode(address Address, payload []byte, engine crc.Engine) []byte {
	f := Frame{Address: address, Payload: payload}
	return f.Pack(engine)
}

// Decode returns the payload of raw by stripping the leading flag and
// address and the trailing checksum and flag. Nothing is validated besides
// the minimum length.
func Decode(raw []byte) ([]byte, error) {
	f, err := ParseFrame(raw)
	if err != nil {
		return nil, err
	}

	return f.Payload, nil
}

// ParseFrame splits raw into its fields without validating flags or checksum.
func ParseFrame(raw []byte) (*Frame, error) {
	if len(raw) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrMalformedFrame, len(raw), MinFrameSize)
	}

	f := &Frame{
		Payload: util.CloneSlice(raw[headerSize:len(raw)-trailerSize], 0),
	}
	copy(f.Address[:], raw[1:headerSize])
	copy(f.Checksum[:], raw[len(raw)-trailerSize:len(raw)-1])

	return f, nil
}

// DecodeVerified parses raw and checks both flags and the checksum.
func DecodeVerified(raw []byte, engine crc.Engine) (*Frame, error) {
	f, err := ParseFrame(raw)
	if err != nil {
		return nil, err
	}

	if raw[0] != Flag || raw[len(raw)-1] != Flag {
		return nil, fmt.Errorf("%w: start=0x%02X, end=0x%02X", ErrBadFlag, raw[0], raw[len(raw)-1])
	}

	want := engine.Compute(raw[1 : len(raw)-trailerSize])
	if want != f.Checksum {
		return nil, fmt.Errorf("%w: wire=% X, computed=% X", ErrChecksumMismatch, f.Checksum[:], want[:])
	}

	return f, nil
}

// ContainsFlag reports whether payload contains an unescaped Flag byte.
func ContainsFlag(payload []byte) bool {
	return bytes.IndexByte(payload, Flag) >= 0
}
