package dms

import (
	"fmt"
	"strconv"
	"strings"
)

// MemoryType is the message memory class of a slot (dmsMessageMemoryType).
type MemoryType uint8

const (
	MemoryOther         MemoryType = 1
	MemoryPermanent     MemoryType = 2
	MemoryChangeable    MemoryType = 3
	MemoryVolatile      MemoryType = 4
	MemoryCurrentBuffer MemoryType = 5
	MemorySchedule      MemoryType = 6
	MemoryBlank         MemoryType = 7
)

func (t MemoryType) String() string {
	switch t {
	case MemoryOther:
		return "other"
	case MemoryPermanent:
		return "permanent"
	case MemoryChangeable:
		return "changeable"
	case MemoryVolatile:
		return "volatile"
	case MemoryCurrentBuffer:
		return "currentBuffer"
	case MemorySchedule:
		return "schedule"
	case MemoryBlank:
		return "blank"
	default:
		return "memoryType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseMemoryType accepts a memory type by number ("3") or name
// ("changeable").
func ParseMemoryType(s string) (MemoryType, error) {
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		return MemoryType(n), nil
	}

	for t := MemoryOther; t <= MemoryBlank; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown memory type %q", ErrInvalidSlot, s)
}

// SlotID addresses one message storage location of the sign.
type SlotID struct {
	Type   MemoryType
	Column uint16
}

func (s SlotID) String() string {
	return fmt.Sprintf("%d.%d", s.Type, s.Column)
}

// ParseSlotTokens parses the active-slot value rendered as hex byte tokens:
// the first token is the memory type, the next two the big-endian column.
// Extra tokens (the sign may append the message checksum) are ignored.
func ParseSlotTokens(tokens []string) (SlotID, error) {
	if len(tokens) < 3 {
		return SlotID{}, fmt.Errorf("%w: want 3 tokens, got %d", ErrInvalidSlot, len(tokens))
	}

	var b [3]byte
	for i := range b {
		v, err := strconv.ParseUint(tokens[i], 16, 8)
		if err != nil {
			return SlotID{}, fmt.Errorf("%w: token %d %q: %w", ErrInvalidSlot, i, tokens[i], err)
		}
		b[i] = byte(v)
	}

	return SlotID{
		Type:   MemoryType(b[0]),
		Column: uint16(b[1])<<8 | uint16(b[2]),
	}, nil
}

// MessageStatus is the value space of dmsMessageStatus.
type MessageStatus int64

const (
	StatusNotUsed     MessageStatus = 1
	StatusModifying   MessageStatus = 2
	StatusValidating  MessageStatus = 3
	StatusValid       MessageStatus = 4
	StatusError       MessageStatus = 5
	StatusModifyReq   MessageStatus = 6
	StatusValidateReq MessageStatus = 7
	StatusNotUsedReq  MessageStatus = 8
)

func (s MessageStatus) String() string {
	switch s {
	case StatusNotUsed:
		return "notUsed"
	case StatusModifying:
		return "modifying"
	case StatusValidating:
		return "validating"
	case StatusValid:
		return "valid"
	case StatusError:
		return "error"
	case StatusModifyReq:
		return "modifyReq"
	case StatusValidateReq:
		return "validateReq"
	case StatusNotUsedReq:
		return "notUsedReq"
	default:
		return "status(" + strconv.FormatInt(int64(s), 10) + ")"
	}
}
