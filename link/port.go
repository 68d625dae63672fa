package link

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the byte channel a session drives. go.bug.st/serial ports satisfy
// it directly.
//
// Read must return (0, nil) when no byte arrives within the read timeout.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Opener opens the port described by cfg.
type Opener func(cfg *Config) (Port, error)

// SerialOpener opens cfg.PortName() with go.bug.st/serial.
func SerialOpener(cfg *Config) (Port, error) {
	p, err := serial.Open(cfg.PortName(), cfg.Mode())
	if err != nil {
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortNotFound {
			return nil, fmt.Errorf("the port '%s' was not found: %w", cfg.PortName(), err)
		}

		return nil, err
	}

	return p, nil
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: list ports: %w", ErrConnection, err)
	}

	return ports, nil
}
