package dms

import (
	"github.com/arloliu/go-dms/snmp"
)

// NTCIP 1203 object identifiers.
var (
	// DMSRoot is the dms node of the NTCIP 1203 MIB.
	DMSRoot = snmp.MustParseOID("1.3.6.1.4.1.1206.4.2.3")

	// MessageTableEntry is dmsMessageEntry, indexed by (memory type, number).
	MessageTableEntry = DMSRoot.Child(5, 8, 1)

	// ActivateMessageOID is dmsActivateMessage.
	ActivateMessageOID = DMSRoot.Child(6, 3, 0)

	// MessageSourceOID is dmsMsgTableSource, the slot currently displayed.
	MessageSourceOID = DMSRoot.Child(6, 5, 0)
)

// dmsMessageEntry columns.
const (
	columnMultiString uint32 = 3
	columnOwner       uint32 = 4
	columnCRC         uint32 = 5
	columnPriority    uint32 = 8
	columnStatus      uint32 = 9
)

func (s SlotID) column(col uint32) snmp.OID {
	return MessageTableEntry.Child(col, uint32(s.Type), uint32(s.Column))
}

// MessageTextOID is dmsMessageMultiString for the slot.
func (s SlotID) MessageTextOID() snmp.OID { return s.column(columnMultiString) }

// OwnerOID is dmsMessageOwner for the slot.
func (s SlotID) OwnerOID() snmp.OID { return s.column(columnOwner) }

// ChecksumOID is dmsMessageCRC for the slot.
func (s SlotID) ChecksumOID() snmp.OID { return s.column(columnCRC) }

// PriorityOID is dmsMessageRunTimePriority for the slot.
func (s SlotID) PriorityOID() snmp.OID { return s.column(columnPriority) }

// StatusOID is dmsMessageStatus for the slot.
func (s SlotID) StatusOID() snmp.OID { return s.column(columnStatus) }
