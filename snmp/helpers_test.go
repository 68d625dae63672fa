package snmp

import (
	"sync"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/link"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/pmpp"
)

// replyFunc builds the reply to a decoded request. A nil packet leaves the
// line silent.
type replyFunc func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket

// devicePort plays the sign side of the link: every written frame is
// decoded, passed to reply, and the framed answer is queued for Read.
type devicePort struct {
	mu          sync.Mutex
	reply       replyFunc
	mangle      func(frame []byte) []byte
	pending     []byte
	requests    []*gosnmp.SnmpPacket
	readTimeout time.Duration
	opens       int
	closes      int
}

func (p *devicePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := pmpp.Decode(b)
	if err != nil {
		return len(b), nil
	}

	decoder := &gosnmp.GoSNMP{Version: gosnmp.Version1}
	req, err := decoder.SnmpDecodePacket(payload)
	if err != nil {
		return len(b), nil
	}
	p.requests = append(p.requests, req)

	resp := p.reply(req)
	if resp == nil {
		return len(b), nil
	}

	raw, err := resp.MarshalMsg()
	if err != nil {
		return 0, err
	}

	frame := pmpp.Encode(pmpp.DefaultAddress, raw, crc.FCS16)
	if p.mangle != nil {
		frame = p.mangle(frame)
	}
	p.pending = append(p.pending, frame...)

	return len(b), nil
}

func (p *devicePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if len(p.pending) == 0 {
		timeout := p.readTimeout
		p.mu.Unlock()
		time.Sleep(timeout)

		return 0, nil
	}
	defer p.mu.Unlock()

	n := copy(b, p.pending)
	p.pending = p.pending[n:]

	return n, nil
}

func (p *devicePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t

	return nil
}

func (p *devicePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++

	return nil
}

func (p *devicePort) Requests() []*gosnmp.SnmpPacket {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*gosnmp.SnmpPacket(nil), p.requests...)
}

// respond returns a GetResponse to req binding the given variables.
func respond(req *gosnmp.SnmpPacket, vars ...gosnmp.SnmpPDU) *gosnmp.SnmpPacket {
	return &gosnmp.SnmpPacket{
		Version:   gosnmp.Version1,
		Community: req.Community,
		PDUType:   gosnmp.GetResponse,
		RequestID: req.RequestID,
		Variables: vars,
	}
}

// echo answers every request by returning its own bindings.
func echo(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
	return respond(req, req.Variables...)
}

func newTestClient(t *testing.T, port *devicePort, linkOpts ...link.Option) *Client {
	t.Helper()

	opts := []link.Option{
		link.WithResponseDelay(time.Millisecond),
		link.WithPollInterval(5 * time.Millisecond),
		link.WithReadTimeout(500 * time.Millisecond),
		link.WithLogger(logger.NewNop()),
		link.WithOpener(func(*link.Config) (link.Port, error) {
			port.mu.Lock()
			port.opens++
			port.mu.Unlock()

			return port, nil
		}),
	}

	cfg, err := link.NewConfig(t.Name(), append(opts, linkOpts...)...)
	if err != nil {
		t.Fatalf("newTestClient: %v", err)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("newTestClient: %v", err)
	}

	return client
}
