// Package crc provides the 16-bit checksum engines used to protect PMPP
// frames on the serial link.
//
// The checksum covers the address and payload of a frame and is written as
// two bytes just before the closing flag. Which algorithm a sign expects is a
// property of its link firmware, so the engine is pluggable: every engine
// implements [Engine] and can be selected by name through [Lookup].
//
// The default engine, [FCS16], is the HDLC/PPP frame check sequence
// (CRC-16/X-25) transmitted least significant byte first. Verify it against a
// capture from the target device before relying on it; the other engines are
// provided for firmware that deviates.
package crc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sigurn/crc16"
)

// Size is the number of checksum bytes in a frame.
const Size = 2

// ErrUnknownEngine is returned by Lookup for an unregistered engine name.
var ErrUnknownEngine = errors.New("crc: unknown checksum engine")

// Engine computes a frame checksum. Implementations must be pure functions
// of their input.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string
	// Compute returns the two checksum bytes in wire order.
	Compute(data []byte) [Size]byte
}

// Func adapts a plain function to the Engine interface.
type Func struct {
	name string
	fn   func([]byte) [Size]byte
}

// NewFunc returns an Engine named name that delegates to fn.
func NewFunc(name string, fn func([]byte) [Size]byte) Func {
	return Func{name: name, fn: fn}
}

func (f Func) Name() string                   { return f.name }
func (f Func) Compute(data []byte) [Size]byte { return f.fn(data) }

// tableEngine wraps a sigurn/crc16 parameter set.
type tableEngine struct {
	name     string
	table    *crc16.Table
	lsbFirst bool
}

func newTableEngine(name string, params crc16.Params, lsbFirst bool) *tableEngine {
	return &tableEngine{
		name:     name,
		table:    crc16.MakeTable(params),
		lsbFirst: lsbFirst,
	}
}

func (e *tableEngine) Name() string { return e.name }

func (e *tableEngine) Compute(data []byte) [Size]byte {
	return split(crc16.Checksum(data, e.table), e.lsbFirst)
}

func split(v uint16, lsbFirst bool) [Size]byte {
	if lsbFirst {
		return [Size]byte{byte(v), byte(v >> 8)}
	}

	return [Size]byte{byte(v >> 8), byte(v)}
}

// Built-in engines.
var (
	// FCS16 is the HDLC frame check sequence (CRC-16/X-25: poly 0x1021
	// reflected, init 0xFFFF, xorout 0xFFFF), low byte first.
	//
	//	"123456789" -> 0x906E -> wire 6E 90
	FCS16 Engine = newTableEngine("fcs16", crc16.CRC16_X_25, true)

	// Modbus is CRC-16/MODBUS (poly 0x8005 reflected, init 0xFFFF), low byte first.
	//
	//	"123456789" -> 0x4B37 -> wire 37 4B
	Modbus Engine = newTableEngine("modbus", crc16.CRC16_MODBUS, true)

	// CCITTFalse is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), high byte first.
	//
	//	"123456789" -> 0x29B1 -> wire 29 B1
	CCITTFalse Engine = newTableEngine("ccitt-false", crc16.CRC16_CCITT_FALSE, false)

	// Sum16 is the arithmetic sum of all bytes truncated to 16 bits, high
	// byte first.
	//
	//	"123456789" -> 0x01DD -> wire 01 DD
	Sum16 Engine = NewFunc("sum16", func(data []byte) [Size]byte {
		var sum uint32
		for _, v := range data {
			sum += uint32(v)
		}

		return split(uint16(sum&0xFFFF), false) //nolint:gosec // intentional truncation
	})
)

var registry = map[string]Engine{
	FCS16.Name():      FCS16,
	Modbus.Name():     Modbus,
	CCITTFalse.Name(): CCITTFalse,
	Sum16.Name():      Sum16,
}

// Default returns the engine used when none is configured.
func Default() Engine { return FCS16 }

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, error) {
	if e, ok := registry[name]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
