package snmp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gosnmp/gosnmp"

	"github.com/arloliu/go-dms/internal/util"
)

// Kind is the ASN.1 kind of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindOctetString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindOctetString:
		return "OctetString"
	default:
		return "Null"
	}
}

// Value is the value bound to an object in a request or reply.
type Value struct {
	kind Kind
	num  int64
	data []byte
}

// NullValue returns the empty value used in GET requests.
func NullValue() Value { return Value{} }

// IntegerValue returns an INTEGER value.
func IntegerValue(v int64) Value { return Value{kind: KindInteger, num: v} }

// OctetStringValue returns an OCTET STRING value holding a copy of b.
func OctetStringValue(b []byte) Value {
	return Value{kind: KindOctetString, data: util.CloneSlice(b, 0)}
}

// StringValue returns an OCTET STRING value holding s.
func StringValue(s string) Value {
	return Value{kind: KindOctetString, data: []byte(s)}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer held by v.
func (v Value) Int() (int64, error) {
	if v.kind != KindInteger {
		return 0, fmt.Errorf("%w: want Integer, got %s", ErrValueKind, v.kind)
	}

	return v.num, nil
}

// Bytes returns the octets held by v, or nil for other kinds.
func (v Value) Bytes() []byte {
	if v.kind != KindOctetString {
		return nil
	}

	return util.CloneSlice(v.data, 0)
}

// Text returns the octets of v as a string.
func (v Value) Text() string {
	return string(v.data)
}

// Tokens renders the octets of v as two-digit hex tokens, e.g.
// ["03" "00" "01"]. For other kinds it returns the fields of String().
func (v Value) Tokens() []string {
	if v.kind == KindOctetString {
		return util.HexTokens(v.data)
	}

	return strings.Fields(v.String())
}

// String renders v for display. Octet strings that are not printable text
// are rendered as space separated hex bytes.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindOctetString:
		if isPrintable(v.data) {
			return string(v.data)
		}
		return util.HexString(v.data)
	default:
		return "Null"
	}
}

// Equal reports whether v and other have the same kind and content.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.num == other.num && bytes.Equal(v.data, other.data)
}

// PDU converts v to a gosnmp variable binding for oid.
func (v Value) PDU(oid OID) gosnmp.SnmpPDU {
	pdu := gosnmp.SnmpPDU{Name: oid.String()}

	switch v.kind {
	case KindInteger:
		pdu.Type = gosnmp.Integer
		pdu.Value = int(v.num)
	case KindOctetString:
		pdu.Type = gosnmp.OctetString
		pdu.Value = util.CloneSlice(v.data, 0)
	default:
		pdu.Type = gosnmp.Null
	}

	return pdu
}

// ValueFromPDU converts a gosnmp variable binding to a Value. Numeric
// application types map to KindInteger; anything else that is not an octet
// string maps to KindNull.
func ValueFromPDU(pdu gosnmp.SnmpPDU) Value {
	switch pdu.Type {
	case gosnmp.OctetString:
		switch b := pdu.Value.(type) {
		case []byte:
			return OctetStringValue(b)
		case string:
			return StringValue(b)
		}
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks,
		gosnmp.Counter64, gosnmp.Uinteger32:
		return IntegerValue(gosnmp.ToBigInt(pdu.Value).Int64())
	}

	return NullValue()
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	for _, c := range b {
		if c > unicode.MaxASCII || !unicode.IsPrint(rune(c)) {
			return false
		}
	}

	return true
}
