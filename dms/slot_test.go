package dms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   SlotID
	}{
		{"changeable 1", []string{"03", "00", "01"}, SlotID{Type: MemoryChangeable, Column: 1}},
		{"permanent 256", []string{"02", "01", "00"}, SlotID{Type: MemoryPermanent, Column: 256}},
		{"lower case hex", []string{"04", "ff", "fe"}, SlotID{Type: MemoryVolatile, Column: 0xFFFE}},
		{"trailing crc ignored", []string{"03", "00", "05", "88", "15"}, SlotID{Type: MemoryChangeable, Column: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlotTokens(tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSlotTokens_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"empty", nil},
		{"too few", []string{"03", "00"}},
		{"not hex", []string{"03", "zz", "01"}},
		{"wider than a byte", []string{"103", "00", "01"}},
		{"decimal text", []string{"Null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSlotTokens(tt.tokens)
			require.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

func TestSlotID_OIDs(t *testing.T) {
	slot := SlotID{Type: MemoryChangeable, Column: 1}

	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1.3.3.1", slot.MessageTextOID().String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1.4.3.1", slot.OwnerOID().String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1.5.3.1", slot.ChecksumOID().String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1.8.3.1", slot.PriorityOID().String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1.9.3.1", slot.StatusOID().String())

	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.6.3.0", ActivateMessageOID.String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.6.5.0", MessageSourceOID.String())
}

func TestSlotID_OIDsDoNotAlias(t *testing.T) {
	a := SlotID{Type: MemoryChangeable, Column: 1}.ChecksumOID()
	b := SlotID{Type: MemoryPermanent, Column: 2}.ChecksumOID()

	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, ".1.3.6.1.4.1.1206.4.2.3.5.8.1", MessageTableEntry.String())
}

func TestMemoryType_String(t *testing.T) {
	assert.Equal(t, "changeable", MemoryChangeable.String())
	assert.Equal(t, "blank", MemoryBlank.String())
	assert.Equal(t, "memoryType(9)", MemoryType(9).String())
	assert.Equal(t, "validateReq", StatusValidateReq.String())
	assert.Equal(t, "status(0)", MessageStatus(0).String())
}

func TestParseMemoryType(t *testing.T) {
	tests := []struct {
		in   string
		want MemoryType
	}{
		{"3", MemoryChangeable},
		{"changeable", MemoryChangeable},
		{"Permanent", MemoryPermanent},
		{"currentBuffer", MemoryCurrentBuffer},
		{"9", MemoryType(9)},
	}

	for _, tt := range tests {
		got, err := ParseMemoryType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMemoryType("flash")
	require.ErrorIs(t, err, ErrInvalidSlot)
	_, err = ParseMemoryType("256")
	require.ErrorIs(t, err, ErrInvalidSlot)
}
