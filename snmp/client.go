package snmp

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/go-dms/link"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/pmpp"
)

type operation uint8

const (
	opGet operation = iota
	opSet
)

func (op operation) String() string {
	if op == opSet {
		return "SET"
	}

	return "GET"
}

// Client performs single GET/SET operations against one sign.
//
// Each call opens its own link session and closes it before returning; no
// connection is reused across calls. A reply whose request-id differs from
// the request's is refused with ErrProtocol, so a late answer to an earlier
// timed-out request is never taken for the current one. A Client is safe for concurrent use in
// the sense that concurrent calls queue for the port.
type Client struct {
	cfg     *link.Config
	codec   Codec
	logger  logger.Logger
	metrics ClientMetrics
}

// ClientOption is a functional option for NewClient.
type ClientOption interface {
	apply(*Client) error
}

type clientOptFunc func(*Client) error

func (f clientOptFunc) apply(c *Client) error { return f(c) }

// WithCodec replaces the message codec.
func WithCodec(codec Codec) ClientOption {
	return clientOptFunc(func(c *Client) error {
		if codec == nil {
			return errors.New("snmp: codec must not be nil")
		}
		c.codec = codec

		return nil
	})
}

// WithCommunity sets the community string of the default codec.
func WithCommunity(community string) ClientOption {
	return clientOptFunc(func(c *Client) error {
		c.codec = NewCodec(community)

		return nil
	})
}

// NewClient returns a Client talking through links configured by cfg.
func NewClient(cfg *link.Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, link.ErrConfigNil
	}

	c := &Client{
		cfg:    cfg,
		codec:  NewCodec(DefaultCommunity),
		logger: cfg.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Config returns the link configuration of the client.
func (c *Client) Config() *link.Config { return c.cfg }

// GetMetrics returns the client counters.
func (c *Client) GetMetrics() *ClientMetrics { return &c.metrics }

// Get reads the value of oid.
func (c *Client) Get(ctx context.Context, oid OID) (Value, error) {
	c.metrics.incGetCount()

	return c.do(ctx, opGet, oid, NullValue())
}

// Set writes value to oid and returns the value echoed by the sign.
func (c *Client) Set(ctx context.Context, oid OID, value Value) (Value, error) {
	c.metrics.incSetCount()

	return c.do(ctx, opSet, oid, value)
}

func (c *Client) do(ctx context.Context, op operation, oid OID, value Value) (Value, error) {
	v, err := c.roundTrip(ctx, op, oid, value)
	if err != nil {
		c.metrics.incErrCount()
		c.logger.Debug("snmp: operation failed", "op", op.String(), "oid", oid.String(), "error", err)

		return Value{}, err
	}

	c.metrics.incResponseCount()
	c.logger.Debug("snmp: operation done", "op", op.String(), "oid", oid.String(), "value", v.String())

	return v, nil
}

func (c *Client) roundTrip(ctx context.Context, op operation, oid OID, value Value) (Value, error) {
	var (
		payload []byte
		err     error
	)

	requestID := NextRequestID()
	if op == opSet {
		payload, err = c.codec.EncodeSet(requestID, oid, value)
	} else {
		payload, err = c.codec.EncodeGet(requestID, oid)
	}
	if err != nil {
		return Value{}, err
	}

	if pmpp.ContainsFlag(payload) {
		c.logger.Warn("snmp: payload contains unescaped frame flag", "op", op.String(), "oid", oid.String())
	}

	frame := pmpp.Encode(c.cfg.Address(), payload, c.cfg.Checksum())

	var raw []byte
	err = link.WithSession(ctx, c.cfg, func(s *link.Session) error {
		var xerr error
		raw, xerr = s.Exchange(ctx, frame)

		return xerr
	})
	if err != nil {
		return Value{}, err
	}

	reply, err := c.unframe(raw)
	if err != nil {
		return Value{}, err
	}

	resp, err := c.codec.Decode(reply)
	if err != nil {
		return Value{}, err
	}

	if resp.RequestID != requestID {
		return Value{}, fmt.Errorf("%w: reply request-id %d, want %d", ErrProtocol, resp.RequestID, requestID)
	}

	if resp.ErrorStatus != NoError {
		c.metrics.incRejectCount()
		return Value{}, fmt.Errorf("%w: %s %s: %s (index %d)",
			ErrDeviceRejection, op, oid, resp.ErrorStatus, resp.ErrorIndex)
	}

	v, ok := resp.Lookup(oid)
	if !ok {
		return Value{}, fmt.Errorf("%w: reply has no binding for %s", ErrProtocol, oid)
	}

	return v, nil
}

func (c *Client) unframe(raw []byte) ([]byte, error) {
	if !c.cfg.VerifyFrames() {
		return pmpp.Decode(raw)
	}

	f, err := pmpp.DecodeVerified(raw, c.cfg.Checksum())
	if err != nil {
		return nil, err
	}

	return f.Payload, nil
}
