package snmp

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
)

// requestIDGenerator hands out SNMP request IDs. It starts from a random
// value and increments atomically, keeping IDs within the positive Integer32
// range required by the PDU.
type requestIDGenerator struct {
	id atomic.Uint32
}

func newRequestIDGenerator() *requestIDGenerator {
	inst := &requestIDGenerator{}
	var buf [4]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return inst
	}
	inst.id.Store(binary.LittleEndian.Uint32(buf[:]) & 0x7FFFFFFF)

	return inst
}

func (g *requestIDGenerator) next() uint32 {
	return g.id.Add(1) & 0x7FFFFFFF
}

var (
	genInst *requestIDGenerator
	genOnce sync.Once
)

// NextRequestID returns a process-unique request ID.
func NextRequestID() uint32 {
	genOnce.Do(func() {
		genInst = newRequestIDGenerator()
	})

	return genInst.next()
}
