package link

import "sync/atomic"

// SessionMetrics accumulates counters over all sessions opened from one
// Config.
type SessionMetrics struct {
	// SessionOpenCount indicates the number of sessions opened.
	SessionOpenCount atomic.Uint64
	// SessionErrCount indicates the number of failed open or close attempts.
	SessionErrCount atomic.Uint64
	// FrameSendCount indicates the number of frames fully written.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of non-empty replies drained.
	FrameRecvCount atomic.Uint64
	// ByteSendCount indicates the number of bytes written.
	ByteSendCount atomic.Uint64
	// ByteRecvCount indicates the number of bytes read.
	ByteRecvCount atomic.Uint64
	// TimeoutCount indicates the number of write or read timeouts.
	TimeoutCount atomic.Uint64
}

func (m *SessionMetrics) incSessionOpenCount() { m.SessionOpenCount.Add(1) }
func (m *SessionMetrics) incSessionErrCount()  { m.SessionErrCount.Add(1) }
func (m *SessionMetrics) incTimeoutCount()     { m.TimeoutCount.Add(1) }

func (m *SessionMetrics) addSent(n int) {
	m.FrameSendCount.Add(1)
	m.ByteSendCount.Add(uint64(n)) //nolint:gosec // n is a non-negative length
}

func (m *SessionMetrics) addRecv(n int) {
	if n == 0 {
		return
	}
	m.FrameRecvCount.Add(1)
	m.ByteRecvCount.Add(uint64(n)) //nolint:gosec // n is a non-negative length
}
