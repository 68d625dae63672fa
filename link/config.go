package link

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/pmpp"
)

// Defaults match the serial settings of deployed sign controllers.
const (
	DefaultBaudRate      = 9600
	DefaultDataBits      = 8
	DefaultWriteTimeout  = 8 * time.Second
	DefaultReadTimeout   = 5 * time.Second
	DefaultResponseDelay = 1000 * time.Millisecond
	DefaultPollInterval  = 50 * time.Millisecond
)

// Range limits enforced by the options.
const (
	MinDataBits = 5
	MaxDataBits = 8

	MinPollInterval = time.Millisecond
	MaxPollInterval = time.Second

	MaxResponseDelay = time.Minute
)

// Config holds the immutable settings of a serial link to one sign.
//
// A Config is built once with NewConfig and shared by every session opened
// against the sign; it is never modified afterwards.
type Config struct {
	portName string
	baudRate int
	dataBits int
	stopBits serial.StopBits
	parity   serial.Parity

	address pmpp.Address

	writeTimeout  time.Duration
	readTimeout   time.Duration
	responseDelay time.Duration
	pollInterval  time.Duration

	checksum     crc.Engine
	verifyFrames bool

	opener  Opener
	logger  logger.Logger
	metrics *SessionMetrics
}

// NewConfig creates the configuration of a link on portName.
//
// opts are functional options applied in order; see the With* functions.
func NewConfig(portName string, opts ...Option) (*Config, error) {
	portName = strings.TrimSpace(portName)
	if portName == "" {
		return nil, errors.New("link: port name must not be empty")
	}

	cfg := &Config{
		portName:      portName,
		baudRate:      DefaultBaudRate,
		dataBits:      DefaultDataBits,
		stopBits:      serial.OneStopBit,
		parity:        serial.NoParity,
		address:       pmpp.DefaultAddress,
		writeTimeout:  DefaultWriteTimeout,
		readTimeout:   DefaultReadTimeout,
		responseDelay: DefaultResponseDelay,
		pollInterval:  DefaultPollInterval,
		checksum:      crc.Default(),
		opener:        SerialOpener,
		logger:        logger.GetLogger(),
		metrics:       &SessionMetrics{},
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// PortName returns the serial port name, e.g. "/dev/ttyUSB0" or "COM1".
func (cfg *Config) PortName() string { return cfg.portName }

// BaudRate returns the line speed.
func (cfg *Config) BaudRate() int { return cfg.baudRate }

// DataBits returns the number of data bits per character.
func (cfg *Config) DataBits() int { return cfg.dataBits }

// StopBits returns the stop bit setting.
func (cfg *Config) StopBits() serial.StopBits { return cfg.stopBits }

// Parity returns the parity setting.
func (cfg *Config) Parity() serial.Parity { return cfg.parity }

// Address returns the device address placed in every frame.
func (cfg *Config) Address() pmpp.Address { return cfg.address }

// WriteTimeout returns the maximum time allowed to write one frame.
func (cfg *Config) WriteTimeout() time.Duration { return cfg.writeTimeout }

// ReadTimeout returns the maximum time allowed to drain one reply.
func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

// ResponseDelay returns the wait between sending and starting to read.
func (cfg *Config) ResponseDelay() time.Duration { return cfg.responseDelay }

// PollInterval returns the idle time that ends a reply.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// Checksum returns the frame checksum engine.
func (cfg *Config) Checksum() crc.Engine { return cfg.checksum }

// VerifyFrames reports whether received frames are checked for flags and
// checksum before decoding.
func (cfg *Config) VerifyFrames() bool { return cfg.verifyFrames }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Metrics returns the counters shared by all sessions of this Config.
func (cfg *Config) Metrics() *SessionMetrics { return cfg.metrics }

// Mode returns the serial mode corresponding to the configuration.
func (cfg *Config) Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: cfg.dataBits,
		StopBits: cfg.stopBits,
		Parity:   cfg.parity,
	}
}

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithBaudRate sets the line speed.
func WithBaudRate(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("link: baud rate %d must be positive", baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithDataBits sets the number of data bits, 5 to 8.
func WithDataBits(bits int) Option {
	return optFunc(func(cfg *Config) error {
		if bits < MinDataBits || bits > MaxDataBits {
			return fmt.Errorf("link: data bits %d out of range [%d, %d]", bits, MinDataBits, MaxDataBits)
		}
		cfg.dataBits = bits

		return nil
	})
}

// WithStopBits sets the stop bits.
func WithStopBits(bits serial.StopBits) Option {
	return optFunc(func(cfg *Config) error {
		switch bits {
		case serial.OneStopBit, serial.OnePointFiveStopBits, serial.TwoStopBits:
			cfg.stopBits = bits
			return nil
		}

		return fmt.Errorf("link: invalid stop bits %d", bits)
	})
}

// WithParity sets the parity mode.
func WithParity(parity serial.Parity) Option {
	return optFunc(func(cfg *Config) error {
		switch parity {
		case serial.NoParity, serial.OddParity, serial.EvenParity, serial.MarkParity, serial.SpaceParity:
			cfg.parity = parity
			return nil
		}

		return fmt.Errorf("link: invalid parity %d", parity)
	})
}

// WithAddress sets the 3-byte device address.
func WithAddress(addr pmpp.Address) Option {
	return optFunc(func(cfg *Config) error {
		cfg.address = addr

		return nil
	})
}

// WithWriteTimeout sets the maximum time to write one frame.
func WithWriteTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("link: write timeout must be positive")
		}
		cfg.writeTimeout = d

		return nil
	})
}

// WithReadTimeout sets the maximum time to drain one reply.
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("link: read timeout must be positive")
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithResponseDelay sets the time the sign is given to process a request
// before the reply is drained.
func WithResponseDelay(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d > MaxResponseDelay {
			return fmt.Errorf("link: response delay %v out of range [0, %v]", d, MaxResponseDelay)
		}
		cfg.responseDelay = d

		return nil
	})
}

// WithPollInterval sets the idle time that ends a reply.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("link: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithChecksum sets the frame checksum engine.
func WithChecksum(engine crc.Engine) Option {
	return optFunc(func(cfg *Config) error {
		if engine == nil {
			return errors.New("link: checksum engine must not be nil")
		}
		cfg.checksum = engine

		return nil
	})
}

// WithFrameVerification enables flag and checksum checks on received
// frames. Disabled by default.
func WithFrameVerification(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.verifyFrames = enabled

		return nil
	})
}

// WithOpener replaces the function used to open the port.
func WithOpener(opener Opener) Option {
	return optFunc(func(cfg *Config) error {
		if opener == nil {
			return errors.New("link: opener must not be nil")
		}
		cfg.opener = opener

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("link: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// --- Parsing helpers for textual configuration ---

// ParseStopBits converts "1", "1.5" or "2" to a stop bit setting.
func ParseStopBits(s string) (serial.StopBits, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	}

	return 0, fmt.Errorf("link: invalid stop bits %q", s)
}

// ParseParity converts "none", "odd", "even", "mark" or "space" to a
// parity setting.
func ParseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n", "":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	}

	return 0, fmt.Errorf("link: invalid parity %q", s)
}

// ParseAddress converts a hex address such as "0513C1" or "05 13 C1".
func ParseAddress(s string) (pmpp.Address, error) {
	var addr pmpp.Address

	clean := strings.NewReplacer(" ", "", ":", "", "0x", "", "0X", "").Replace(s)
	if len(clean) != 2*pmpp.AddressSize {
		return addr, fmt.Errorf("link: invalid address %q, want %d hex bytes", s, pmpp.AddressSize)
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return addr, fmt.Errorf("link: invalid address %q: %w", s, err)
	}
	copy(addr[:], raw)

	return addr, nil
}
