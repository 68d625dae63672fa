package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/go-dms/internal/pool"
	"github.com/arloliu/go-dms/internal/util"
	"github.com/arloliu/go-dms/logger"
)

// readChunkSize is the buffer size of a single poll read.
const readChunkSize = 256

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateClosed means the session does not own the port.
	StateClosed State = iota
	// StateOpen means the session owns an open port.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}

	return "closed"
}

// Session is one exclusive use of the serial port. It is NOT goroutine-safe.
type Session struct {
	cfg    *Config
	port   Port
	logger logger.Logger
	state  State
}

// Open acquires exclusive ownership of the configured port and opens it.
//
// If another session of this process owns the port, Open waits until it is
// released or ctx is done.
func Open(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if err := acquirePort(ctx, cfg.portName); err != nil {
		return nil, fmt.Errorf("%w: waiting for port %s: %w", ErrConnection, cfg.portName, err)
	}

	port, err := cfg.opener(cfg)
	if err != nil {
		releasePort(cfg.portName)
		cfg.metrics.incSessionErrCount()

		return nil, fmt.Errorf("%w: open %s: %w", ErrConnection, cfg.portName, err)
	}

	cfg.metrics.incSessionOpenCount()

	s := &Session{
		cfg:    cfg,
		port:   port,
		logger: cfg.logger.With("port", cfg.portName),
		state:  StateOpen,
	}
	s.logger.Debug("link: session opened", "baud", cfg.baudRate, "address", cfg.address.String())

	return s, nil
}

// WithSession opens a session, runs fn and closes the session on every exit
// path. An error from fn takes precedence over a close error.
func WithSession(ctx context.Context, cfg *Config, fn func(*Session) error) (err error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(s)
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Config returns the configuration the session was opened with.
func (s *Session) Config() *Config { return s.cfg }

// Send writes frame completely, failing with ErrWriteTimeout when the write
// does not finish within the configured write timeout.
func (s *Session) Send(frame []byte) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}

	done := make(chan error, 1)
	go func() {
		done <- writeAll(s.port, frame)
	}()

	timer := pool.GetTimer(s.cfg.writeTimeout)
	defer pool.PutTimer(timer)

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: write: %w", ErrTransport, err)
		}
	case <-timer.C:
		s.cfg.metrics.incTimeoutCount()
		return fmt.Errorf("%w after %v", ErrWriteTimeout, s.cfg.writeTimeout)
	}

	s.cfg.metrics.addSent(len(frame))
	s.logger.Debug("link: frame sent", "len", len(frame), "data", util.HexString(frame))

	return nil
}

// Receive waits the response delay, then reads until one poll interval
// passes without any byte arriving, and returns everything read.
//
// The drain fails with ErrReadTimeout when the line keeps delivering bytes
// for longer than the read timeout. An idle line yields an empty result, not
// an error.
func (s *Session) Receive(ctx context.Context) ([]byte, error) {
	if s.state != StateOpen {
		return nil, ErrSessionClosed
	}

	if err := pool.Sleep(ctx, s.cfg.responseDelay); err != nil {
		return nil, err
	}

	if err := s.port.SetReadTimeout(s.cfg.pollInterval); err != nil {
		return nil, fmt.Errorf("%w: set read timeout: %w", ErrTransport, err)
	}

	deadline := time.Now().Add(s.cfg.readTimeout)
	buf := make([]byte, readChunkSize)

	var data []byte
	for {
		n, err := s.port.Read(buf)
		data = append(data, buf[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read: %w", ErrTransport, err)
		}
		if n == 0 {
			// idle for one poll interval
			break
		}
		if time.Now().After(deadline) {
			s.cfg.metrics.incTimeoutCount()
			return nil, fmt.Errorf("%w after %v, %d bytes pending", ErrReadTimeout, s.cfg.readTimeout, len(data))
		}
	}

	s.cfg.metrics.addRecv(len(data))
	s.logger.Debug("link: reply drained", "len", len(data), "data", util.HexString(data))

	return data, nil
}

// Exchange sends frame and drains the reply.
func (s *Session) Exchange(ctx context.Context, frame []byte) ([]byte, error) {
	if err := s.Send(frame); err != nil {
		return nil, err
	}

	return s.Receive(ctx)
}

// Close closes the port and releases ownership. Closing a closed session is
// a no-op.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}

	s.state = StateClosed
	defer releasePort(s.cfg.portName)

	if err := s.port.Close(); err != nil {
		s.cfg.metrics.incSessionErrCount()
		return fmt.Errorf("%w: close %s: %w", ErrConnection, s.cfg.portName, err)
	}

	s.logger.Debug("link: session closed")

	return nil
}

func writeAll(w io.Writer, data []byte) error {
	for written := 0; written < len(data); {
		n, err := w.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}

	return nil
}
