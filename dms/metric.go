package dms

import "sync/atomic"

// ControllerMetrics contains atomic counters for a Controller.
type ControllerMetrics struct {
	// ReadCount indicates the number of current-message reads.
	ReadCount atomic.Uint64
	// ReadErrCount indicates the number of failed current-message reads.
	ReadErrCount atomic.Uint64
	// ActivateCount indicates the number of activation attempts.
	ActivateCount atomic.Uint64
	// ActivateErrCount indicates the number of failed activations.
	ActivateErrCount atomic.Uint64
	// WriteCount indicates the number of message write attempts.
	WriteCount atomic.Uint64
	// WriteErrCount indicates the number of failed message writes.
	WriteErrCount atomic.Uint64
}

func (m *ControllerMetrics) incReadCount()        { m.ReadCount.Add(1) }
func (m *ControllerMetrics) incReadErrCount()     { m.ReadErrCount.Add(1) }
func (m *ControllerMetrics) incActivateCount()    { m.ActivateCount.Add(1) }
func (m *ControllerMetrics) incActivateErrCount() { m.ActivateErrCount.Add(1) }
func (m *ControllerMetrics) incWriteCount()       { m.WriteCount.Add(1) }
func (m *ControllerMetrics) incWriteErrCount()    { m.WriteErrCount.Add(1) }
