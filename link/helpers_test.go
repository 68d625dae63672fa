package link

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/go-dms/logger"
)

// fakePort is an in-memory Port. Each Read returns the next scripted chunk
// after its delay, or (0, nil) after the read timeout once the script is
// exhausted.
type fakePort struct {
	mu          sync.Mutex
	written     bytes.Buffer
	chunks      []fakeChunk
	readTimeout time.Duration
	writeBlock  chan struct{}
	readErr     error
	closeErr    error
	closed      bool
}

type fakeChunk struct {
	delay time.Duration
	data  []byte
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	block := p.writeBlock
	p.mu.Unlock()

	if block != nil {
		<-block
		return 0, errors.New("fake: port closed")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.written.Write(b)
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.readErr != nil {
		p.mu.Unlock()
		return 0, p.readErr
	}
	if len(p.chunks) == 0 {
		timeout := p.readTimeout
		p.mu.Unlock()
		time.Sleep(timeout)

		return 0, nil
	}

	c := p.chunks[0]
	if c.delay > p.readTimeout {
		timeout := p.readTimeout
		p.chunks[0].delay -= timeout
		p.mu.Unlock()
		time.Sleep(timeout)

		return 0, nil
	}

	n := copy(b, c.data)
	if n < len(c.data) {
		p.chunks[0].data = c.data[n:]
		p.chunks[0].delay = 0
	} else {
		p.chunks = p.chunks[1:]
	}
	p.mu.Unlock()
	time.Sleep(c.delay)

	return n, nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t

	return nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.writeBlock != nil {
		close(p.writeBlock)
		p.writeBlock = nil
	}

	return p.closeErr
}

func (p *fakePort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	return bytes.Clone(p.written.Bytes())
}

func (p *fakePort) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closed
}

// newTestConfig returns a Config with short timings bound to port. Each test
// gets a unique port name so the port lock registry does not couple tests.
func newTestConfig(t *testing.T, port Port, opts ...Option) *Config {
	t.Helper()

	defaults := []Option{
		WithResponseDelay(5 * time.Millisecond),
		WithPollInterval(10 * time.Millisecond),
		WithReadTimeout(500 * time.Millisecond),
		WithWriteTimeout(200 * time.Millisecond),
		WithLogger(logger.NewNop()),
		WithOpener(func(*Config) (Port, error) { return port, nil }),
	}

	cfg, err := NewConfig(t.Name(), append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("newTestConfig: %v", err)
	}

	return cfg
}
