package dms

import (
	"errors"

	"github.com/arloliu/go-dms/logger"
)

// Defaults used by deployed controllers.
const (
	DefaultOwner                    = "DDOT ITS"
	DefaultPriority           uint8 = 1
	DefaultActivationPriority uint8 = 0xFF
)

// Options holds the immutable settings of a Controller.
type Options struct {
	owner              string
	priority           uint8
	activationDuration uint16
	activationPriority uint8

	logger      logger.Logger
	diagnostics func(string)
}

func defaultOptions() Options {
	return Options{
		owner:              DefaultOwner,
		priority:           DefaultPriority,
		activationDuration: NoExpiry,
		activationPriority: DefaultActivationPriority,
		logger:             logger.GetLogger(),
		diagnostics:        func(string) {},
	}
}

// Owner returns the default message owner.
func (o Options) Owner() string { return o.owner }

// Priority returns the default message run-time priority.
func (o Options) Priority() uint8 { return o.priority }

// ActivationDuration returns the duration placed in activation codes.
func (o Options) ActivationDuration() uint16 { return o.activationDuration }

// ActivationPriority returns the priority placed in activation codes.
func (o Options) ActivationPriority() uint8 { return o.activationPriority }

// Option is a functional option for NewController.
type Option interface {
	apply(*Options) error
}

type optFunc func(*Options) error

func (f optFunc) apply(o *Options) error { return f(o) }

// WithOwner sets the owner written with every message.
func WithOwner(owner string) Option {
	return optFunc(func(o *Options) error {
		if owner == "" {
			return errors.New("dms: owner must not be empty")
		}
		o.owner = owner

		return nil
	})
}

// WithPriority sets the run-time priority written with every message, 1 to 255.
func WithPriority(priority uint8) Option {
	return optFunc(func(o *Options) error {
		if priority == 0 {
			return errors.New("dms: priority must be in range [1, 255]")
		}
		o.priority = priority

		return nil
	})
}

// WithActivationDuration sets the display duration in minutes placed in
// activation codes. NoExpiry keeps the message until replaced.
func WithActivationDuration(minutes uint16) Option {
	return optFunc(func(o *Options) error {
		o.activationDuration = minutes
		return nil
	})
}

// WithActivationPriority sets the priority placed in activation codes.
func WithActivationPriority(priority uint8) Option {
	return optFunc(func(o *Options) error {
		o.activationPriority = priority
		return nil
	})
}

// WithLogger sets the logger of the controller.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(o *Options) error {
		if l == nil {
			return errors.New("dms: logger must not be nil")
		}
		o.logger = l

		return nil
	})
}

// WithDiagnostics sets a sink receiving the object paths the controller
// issues and the values it parses. The default discards them.
func WithDiagnostics(sink func(string)) Option {
	return optFunc(func(o *Options) error {
		if sink == nil {
			return errors.New("dms: diagnostics sink must not be nil")
		}
		o.diagnostics = sink

		return nil
	})
}
