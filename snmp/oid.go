package snmp

import (
	"fmt"
	"strconv"
	"strings"
)

// OID is an object identifier: a dotted sequence of non-negative integers
// naming one attribute of the sign.
type OID []uint32

// ParseOID parses a dotted identifier. A single leading dot is accepted.
func ParseOID(s string) (OID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidOID)
	}

	parts := strings.Split(s, ".")
	oid := make(OID, len(parts))
	for i, p := range parts {
		arc, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: arc %d: %w", ErrInvalidOID, s, i, err)
		}
		oid[i] = uint32(arc)
	}

	return oid, nil
}

// MustParseOID is like ParseOID but panics on error. It is meant for
// package-level constants.
func MustParseOID(s string) OID {
	oid, err := ParseOID(s)
	if err != nil {
		panic(err)
	}

	return oid
}

// Child returns a new OID with arcs appended.
func (o OID) Child(arcs ...uint32) OID {
	child := make(OID, 0, len(o)+len(arcs))
	child = append(child, o...)

	return append(child, arcs...)
}

// Equal reports whether o and other name the same object.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}

	return true
}

// String renders the OID with a leading dot, e.g. ".1.3.6.1".
func (o OID) String() string {
	var sb strings.Builder
	for _, arc := range o {
		sb.WriteByte('.')
		sb.WriteString(strconv.FormatUint(uint64(arc), 10))
	}

	return sb.String()
}
