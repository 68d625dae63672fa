// Package snmp issues single SNMP GET and SET operations to a sign over a
// PMPP serial link.
//
// Every operation runs one full cycle on a fresh [link.Session]:
//
//	encode request -> frame -> send -> drain reply -> unframe -> decode -> lookup
//
// and releases the port before returning. Only SNMPv1 GetRequest and
// SetRequest are produced; the codec is github.com/gosnmp/gosnmp.
package snmp
