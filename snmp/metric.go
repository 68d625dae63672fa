package snmp

import "sync/atomic"

// ClientMetrics contains atomic counters for a Client.
type ClientMetrics struct {
	// GetCount indicates the number of GET operations issued.
	GetCount atomic.Uint64
	// SetCount indicates the number of SET operations issued.
	SetCount atomic.Uint64
	// ResponseCount indicates the number of operations that returned a value.
	ResponseCount atomic.Uint64
	// ErrCount indicates the number of failed operations.
	ErrCount atomic.Uint64
	// RejectCount indicates the number of replies with a non-zero error-status.
	RejectCount atomic.Uint64
}

func (m *ClientMetrics) incGetCount()      { m.GetCount.Add(1) }
func (m *ClientMetrics) incSetCount()      { m.SetCount.Add(1) }
func (m *ClientMetrics) incResponseCount() { m.ResponseCount.Add(1) }
func (m *ClientMetrics) incErrCount()      { m.ErrCount.Add(1) }
func (m *ClientMetrics) incRejectCount()   { m.RejectCount.Add(1) }
