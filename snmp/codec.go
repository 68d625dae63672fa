package snmp

import (
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// DefaultCommunity is the community string used when none is configured.
const DefaultCommunity = "public"

// ErrorStatus is the error-status field of an SNMP reply.
type ErrorStatus int

// Error-status values defined for SNMPv1.
const (
	NoError    ErrorStatus = 0
	TooBig     ErrorStatus = 1
	NoSuchName ErrorStatus = 2
	BadValue   ErrorStatus = 3
	ReadOnly   ErrorStatus = 4
	GenErr     ErrorStatus = 5
)

func (s ErrorStatus) String() string {
	switch s {
	case NoError:
		return "noError"
	case TooBig:
		return "tooBig"
	case NoSuchName:
		return "noSuchName"
	case BadValue:
		return "badValue"
	case ReadOnly:
		return "readOnly"
	case GenErr:
		return "genErr"
	default:
		return fmt.Sprintf("errorStatus(%d)", int(s))
	}
}

// Binding is one object/value pair of a message.
type Binding struct {
	OID   OID
	Value Value
}

// Response is a decoded reply.
type Response struct {
	RequestID   uint32
	ErrorStatus ErrorStatus
	ErrorIndex  int
	Bindings    []Binding
}

// Lookup returns the value bound to exactly oid.
func (r *Response) Lookup(oid OID) (Value, bool) {
	for _, b := range r.Bindings {
		if b.OID.Equal(oid) {
			return b.Value, true
		}
	}

	return Value{}, false
}

// Codec builds request messages and parses replies.
type Codec interface {
	// EncodeGet builds a GET request for oid.
	EncodeGet(requestID uint32, oid OID) ([]byte, error)
	// EncodeSet builds a SET request binding value to oid.
	EncodeSet(requestID uint32, oid OID, value Value) ([]byte, error)
	// Decode parses a reply message.
	Decode(raw []byte) (*Response, error)
}

// gosnmpCodec encodes SNMPv1 messages with gosnmp.
type gosnmpCodec struct {
	community string
	decoder   *gosnmp.GoSNMP
}

var _ Codec = (*gosnmpCodec)(nil)

// NewCodec returns an SNMPv1 codec using community.
func NewCodec(community string) Codec {
	return &gosnmpCodec{
		community: community,
		decoder: &gosnmp.GoSNMP{
			Version:   gosnmp.Version1,
			Community: community,
		},
	}
}

func (c *gosnmpCodec) EncodeGet(requestID uint32, oid OID) ([]byte, error) {
	return c.encode(gosnmp.GetRequest, requestID, NullValue().PDU(oid))
}

func (c *gosnmpCodec) EncodeSet(requestID uint32, oid OID, value Value) ([]byte, error) {
	if value.IsNull() {
		return nil, fmt.Errorf("%w: SET %s with Null value", ErrValueKind, oid)
	}

	return c.encode(gosnmp.SetRequest, requestID, value.PDU(oid))
}

func (c *gosnmpCodec) encode(pduType gosnmp.PDUType, requestID uint32, pdu gosnmp.SnmpPDU) ([]byte, error) {
	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version1,
		Community: c.community,
		PDUType:   pduType,
		RequestID: requestID,
		Variables: []gosnmp.SnmpPDU{pdu},
	}

	raw, err := packet.MarshalMsg()
	if err != nil {
		return nil, fmt.Errorf("snmp: encode %s %s: %w", pduType, pdu.Name, err)
	}

	return raw, nil
}

func (c *gosnmpCodec) Decode(raw []byte) (*Response, error) {
	packet, err := c.decoder.SnmpDecodePacket(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrProtocol, err)
	}

	return responseFromPacket(packet)
}

func responseFromPacket(packet *gosnmp.SnmpPacket) (*Response, error) {
	resp := &Response{
		RequestID:   packet.RequestID,
		ErrorStatus: ErrorStatus(packet.Error),
		ErrorIndex:  int(packet.ErrorIndex),
		Bindings:    make([]Binding, 0, len(packet.Variables)),
	}

	for _, pdu := range packet.Variables {
		oid, err := ParseOID(pdu.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
		}
		resp.Bindings = append(resp.Bindings, Binding{OID: oid, Value: ValueFromPDU(pdu)})
	}

	return resp, nil
}
