package link

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the port cannot be opened or closed.
	ErrConnection = errors.New("link: connection error")

	// ErrTransport is returned when a write or read fails or exceeds its
	// configured timeout.
	ErrTransport = errors.New("link: transport error")

	// ErrWriteTimeout is returned when a frame is not fully written within
	// the write timeout.
	ErrWriteTimeout = fmt.Errorf("%w: write timeout", ErrTransport)

	// ErrReadTimeout is returned when the line does not go idle within the
	// read timeout.
	ErrReadTimeout = fmt.Errorf("%w: read timeout", ErrTransport)

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("link: session closed")

	// ErrConfigNil is returned when a nil Config is passed to Open.
	ErrConfigNil = errors.New("link: config is nil")
)
