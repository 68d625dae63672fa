package simsign

import (
	"github.com/gosnmp/gosnmp"

	"github.com/arloliu/go-dms/dms"
	"github.com/arloliu/go-dms/snmp"
)

// dmsMessageEntry columns the sign lets a manager write while modifying.
var editableColumns = map[uint32]bool{3: true, 4: true, 8: true}

const statusColumn uint32 = 9

func (s *Sign) handle(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
	resp := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version1,
		Community: req.Community,
		PDUType:   gosnmp.GetResponse,
		RequestID: req.RequestID,
		Variables: make([]gosnmp.SnmpPDU, 0, len(req.Variables)),
	}

	for i, pdu := range req.Variables {
		oid, err := snmp.ParseOID(pdu.Name)
		if err != nil {
			return s.fail(resp, req, gosnmp.NoSuchName, i)
		}

		var (
			v      snmp.Value
			status gosnmp.SNMPError
		)
		switch req.PDUType {
		case gosnmp.GetRequest:
			v, status = s.get(oid)
		case gosnmp.SetRequest:
			v, status = s.set(oid, snmp.ValueFromPDU(pdu))
		default:
			status = gosnmp.GenErr
		}
		if status != gosnmp.NoError {
			return s.fail(resp, req, status, i)
		}

		resp.Variables = append(resp.Variables, v.PDU(oid))
	}

	return resp
}

// fail turns resp into an SNMPv1 error reply, which echoes the request
// bindings.
func (s *Sign) fail(resp, req *gosnmp.SnmpPacket, status gosnmp.SNMPError, index int) *gosnmp.SnmpPacket {
	s.logger.Debug("simsign: request refused", "status", snmp.ErrorStatus(status).String(), "index", index+1)

	resp.Error = status
	resp.ErrorIndex = uint8(index + 1)
	resp.Variables = req.Variables

	return resp
}

func (s *Sign) get(oid snmp.OID) (snmp.Value, gosnmp.SNMPError) {
	v, ok := s.Load(oid)
	if !ok {
		return snmp.Value{}, gosnmp.NoSuchName
	}

	return v, gosnmp.NoError
}

func (s *Sign) set(oid snmp.OID, v snmp.Value) (snmp.Value, gosnmp.SNMPError) {
	if oid.Equal(dms.ActivateMessageOID) {
		return s.activate(v)
	}

	col, slot, ok := tableColumn(oid)
	if !ok {
		if _, exists := s.Load(oid); !exists {
			return snmp.Value{}, gosnmp.NoSuchName
		}

		return snmp.Value{}, gosnmp.ReadOnly
	}
	if _, exists := s.Load(slot.StatusOID()); !exists {
		return snmp.Value{}, gosnmp.NoSuchName
	}

	switch {
	case col == statusColumn:
		return s.setStatus(slot, v)
	case editableColumns[col]:
		if s.status(slot) != dms.StatusModifying {
			return snmp.Value{}, gosnmp.GenErr
		}
		s.Store(oid, v)

		return v, gosnmp.NoError
	default:
		return snmp.Value{}, gosnmp.ReadOnly
	}
}

func (s *Sign) setStatus(slot dms.SlotID, v snmp.Value) (snmp.Value, gosnmp.SNMPError) {
	n, err := v.Int()
	if err != nil {
		return snmp.Value{}, gosnmp.BadValue
	}

	switch dms.MessageStatus(n) {
	case dms.StatusModifyReq:
		if slot.Type == dms.MemoryPermanent {
			return snmp.Value{}, gosnmp.GenErr
		}
		s.Store(slot.StatusOID(), snmp.IntegerValue(int64(dms.StatusModifying)))
	case dms.StatusValidateReq:
		if s.status(slot) != dms.StatusModifying {
			return snmp.Value{}, gosnmp.GenErr
		}
		text, _ := s.Message(slot)
		s.Store(slot.ChecksumOID(), snmp.IntegerValue(int64(s.messageCRC(text))))
		s.Store(slot.StatusOID(), snmp.IntegerValue(int64(dms.StatusValid)))
	case dms.StatusNotUsedReq:
		s.Store(slot.StatusOID(), snmp.IntegerValue(int64(dms.StatusNotUsed)))
	default:
		return snmp.Value{}, gosnmp.BadValue
	}

	return v, gosnmp.NoError
}

func (s *Sign) activate(v snmp.Value) (snmp.Value, gosnmp.SNMPError) {
	code, err := dms.ParseActivationCode(v.Bytes())
	if err != nil {
		return snmp.Value{}, gosnmp.BadValue
	}

	if _, ok := s.Load(code.Slot.StatusOID()); !ok {
		return snmp.Value{}, gosnmp.NoSuchName
	}
	if s.status(code.Slot) != dms.StatusValid || s.Checksum(code.Slot) != code.CRC {
		s.logger.Debug("simsign: activation refused", "slot", code.Slot.String(), "crc", code.CRC)
		return snmp.Value{}, gosnmp.GenErr
	}

	s.setSource(code.Slot)
	s.logger.Info("simsign: message activated", "slot", code.Slot.String())

	if s.nullEcho {
		return snmp.NullValue(), gosnmp.NoError
	}

	return v, gosnmp.NoError
}
