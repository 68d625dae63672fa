package link

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	port := &fakePort{}
	cfg := newTestConfig(t, port)

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, "open", s.State().String())
	assert.Same(t, cfg, s.Config())

	require.NoError(t, s.Close())
	assert.Equal(t, StateClosed, s.State())
	assert.True(t, port.IsClosed())

	// idempotent
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Send([]byte{1}), ErrSessionClosed)
	_, err = s.Receive(context.Background())
	require.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Exchange(context.Background(), []byte{1})
	require.ErrorIs(t, err, ErrSessionClosed)

	assert.Equal(t, uint64(1), cfg.Metrics().SessionOpenCount.Load())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), nil)
	require.ErrorIs(t, err, ErrConfigNil)

	openErr := errors.New("device busy")
	cfg := newTestConfig(t, nil, WithOpener(func(*Config) (Port, error) { return nil, openErr }))

	_, err = Open(context.Background(), cfg)
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, openErr)
	assert.Equal(t, uint64(1), cfg.Metrics().SessionErrCount.Load())

	// failed open must release the port
	cfg2 := newTestConfig(t, &fakePort{})
	s, err := Open(context.Background(), cfg2)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpen_ExclusiveOwnership(t *testing.T) {
	cfg := newTestConfig(t, &fakePort{})

	first, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = Open(ctx, cfg)
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	opened := make(chan *Session)
	go func() {
		s, err := Open(context.Background(), cfg)
		assert.NoError(t, err)
		opened <- s
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, first.Close())

	select {
	case s := <-opened:
		require.NoError(t, s.Close())
	case <-time.After(time.Second):
		t.Fatal("second session was not granted the port")
	}
}

func TestSession_Send(t *testing.T) {
	port := &fakePort{}
	cfg := newTestConfig(t, port)

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	frame := []byte{0x7E, 0x05, 0x13, 0xC1, 0x01, 0x02, 0x03, 0x7E}
	require.NoError(t, s.Send(frame))
	assert.Equal(t, frame, port.Written())
	assert.Equal(t, uint64(1), cfg.Metrics().FrameSendCount.Load())
	assert.Equal(t, uint64(len(frame)), cfg.Metrics().ByteSendCount.Load())
}

func TestSession_SendTimeout(t *testing.T) {
	port := &fakePort{writeBlock: make(chan struct{})}
	cfg := newTestConfig(t, port, WithWriteTimeout(20*time.Millisecond))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	err = s.Send([]byte{0x7E})
	require.ErrorIs(t, err, ErrWriteTimeout)
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, uint64(1), cfg.Metrics().TimeoutCount.Load())

	require.NoError(t, s.Close())
}

func TestSession_ReceiveDrainsUntilIdle(t *testing.T) {
	port := &fakePort{chunks: []fakeChunk{
		{data: []byte{0x7E, 0x05}},
		{delay: 2 * time.Millisecond, data: []byte{0x13, 0xC1}},
		{delay: 2 * time.Millisecond, data: []byte{0x30, 0xAA, 0xBB, 0x7E}},
	}}
	cfg := newTestConfig(t, port)

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 0x05, 0x13, 0xC1, 0x30, 0xAA, 0xBB, 0x7E}, data)
	assert.Equal(t, uint64(1), cfg.Metrics().FrameRecvCount.Load())
}

func TestSession_ReceiveTruncatesOnSlowDevice(t *testing.T) {
	// A pause longer than the poll interval ends the drain early.
	port := &fakePort{chunks: []fakeChunk{
		{data: []byte{0x7E, 0x05, 0x13}},
		{delay: 50 * time.Millisecond, data: []byte{0xC1, 0x7E}},
	}}
	cfg := newTestConfig(t, port, WithPollInterval(10*time.Millisecond))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 0x05, 0x13}, data)
}

func TestSession_ReceiveIdleLine(t *testing.T) {
	cfg := newTestConfig(t, &fakePort{})

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Zero(t, cfg.Metrics().FrameRecvCount.Load())
}

func TestSession_ReceiveWaitsResponseDelay(t *testing.T) {
	cfg := newTestConfig(t, &fakePort{}, WithResponseDelay(60*time.Millisecond))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	begin := time.Now()
	_, err = s.Receive(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(begin), 60*time.Millisecond)
}

func TestSession_ReceiveCancelledDuringDelay(t *testing.T) {
	cfg := newTestConfig(t, &fakePort{}, WithResponseDelay(5*time.Second))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_ReceiveReadTimeout(t *testing.T) {
	chunks := make([]fakeChunk, 100)
	for i := range chunks {
		chunks[i] = fakeChunk{delay: 5 * time.Millisecond, data: []byte{byte(i)}}
	}
	port := &fakePort{chunks: chunks}
	cfg := newTestConfig(t, port, WithReadTimeout(50*time.Millisecond))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Receive(context.Background())
	require.ErrorIs(t, err, ErrReadTimeout)
	require.ErrorIs(t, err, ErrTransport)
}

func TestSession_ReceiveReadError(t *testing.T) {
	readErr := errors.New("framing error")
	cfg := newTestConfig(t, &fakePort{readErr: readErr})

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Receive(context.Background())
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, readErr)
}

func TestSession_Exchange(t *testing.T) {
	port := &fakePort{chunks: []fakeChunk{{data: []byte{0x7E, 0x01, 0x7E}}}}
	cfg := newTestConfig(t, port)

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	reply, err := s.Exchange(context.Background(), []byte{0x7E, 0x02, 0x7E})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 0x01, 0x7E}, reply)
	assert.Equal(t, []byte{0x7E, 0x02, 0x7E}, port.Written())
}

func TestWithSession_ReleasesOnError(t *testing.T) {
	port := &fakePort{}
	cfg := newTestConfig(t, port)

	fnErr := errors.New("boom")
	err := WithSession(context.Background(), cfg, func(*Session) error { return fnErr })
	require.ErrorIs(t, err, fnErr)
	assert.True(t, port.IsClosed())

	// port is free again
	err = WithSession(context.Background(), cfg, func(s *Session) error {
		assert.Equal(t, StateOpen, s.State())
		return nil
	})
	require.NoError(t, err)
}

func TestWithSession_CloseError(t *testing.T) {
	closeErr := errors.New("close failed")
	cfg := newTestConfig(t, &fakePort{closeErr: closeErr})

	err := WithSession(context.Background(), cfg, func(*Session) error { return nil })
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, closeErr)
}
