// Package simsign is an in-memory sign that answers framed SNMP requests
// the way a NTCIP 1203 controller does. It implements link.Port, so it can
// stand in for the serial port in tests and in the CLI's --simulate mode.
package simsign

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/dms"
	"github.com/arloliu/go-dms/link"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/pmpp"
	"github.com/arloliu/go-dms/snmp"
)

// DefaultChangeableSlots is the number of changeable message slots.
const DefaultChangeableSlots = 8

// Sign is a simulated sign. The zero value is not usable; use New.
type Sign struct {
	objects *xsync.MapOf[string, snmp.Value]

	address    pmpp.Address
	checksum   crc.Engine
	msgCRC     crc.Engine
	changeable uint16
	logger     logger.Logger

	mu          sync.Mutex
	pending     []byte
	readTimeout time.Duration
	silent      bool
	nullEcho    bool
	requests    int
	opens       int
}

var _ link.Port = (*Sign)(nil)

// Option is a functional option for New.
type Option func(*Sign)

// WithAddress sets the device address placed in replies.
func WithAddress(addr pmpp.Address) Option {
	return func(s *Sign) { s.address = addr }
}

// WithChecksum sets the frame checksum engine used to verify requests and
// build replies.
func WithChecksum(engine crc.Engine) Option {
	return func(s *Sign) { s.checksum = engine }
}

// WithChangeableSlots sets the number of changeable message slots.
func WithChangeableSlots(n uint16) Option {
	return func(s *Sign) { s.changeable = n }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sign) { s.logger = l }
}

// New returns a sign with one permanent message, permanent slot 1, on
// display and DefaultChangeableSlots empty changeable slots.
func New(opts ...Option) *Sign {
	s := &Sign{
		objects:     xsync.NewMapOf[string, snmp.Value](),
		address:     pmpp.DefaultAddress,
		checksum:    crc.Default(),
		msgCRC:      crc.CCITTFalse,
		changeable:  DefaultChangeableSlots,
		logger:      logger.GetLogger(),
		readTimeout: 10 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.seed()

	return s
}

func (s *Sign) seed() {
	blank := dms.SlotID{Type: dms.MemoryPermanent, Column: 1}
	s.storeMessage(blank, "", "", 1, dms.StatusValid)
	s.setSource(blank)

	for col := uint16(1); col <= s.changeable; col++ {
		s.storeMessage(dms.SlotID{Type: dms.MemoryChangeable, Column: col}, "", "", 1, dms.StatusNotUsed)
	}
}

// Opener returns a link.Opener handing out the sign as the port.
func (s *Sign) Opener() link.Opener {
	return func(*link.Config) (link.Port, error) {
		s.mu.Lock()
		s.opens++
		s.mu.Unlock()

		return s, nil
	}
}

// Load returns the value stored at oid.
func (s *Sign) Load(oid snmp.OID) (snmp.Value, bool) {
	return s.objects.Load(oid.String())
}

// Store sets the value at oid.
func (s *Sign) Store(oid snmp.OID, v snmp.Value) {
	s.objects.Store(oid.String(), v)
}

// Message returns the text stored in slot.
func (s *Sign) Message(slot dms.SlotID) (string, bool) {
	v, ok := s.Load(slot.MessageTextOID())
	if !ok {
		return "", false
	}

	return v.Text(), true
}

// SetMessage stores a valid message in slot without going through the
// modify/validate cycle.
func (s *Sign) SetMessage(slot dms.SlotID, text, owner string) {
	s.storeMessage(slot, text, owner, 1, dms.StatusValid)
}

// Active returns the slot currently displayed.
func (s *Sign) Active() dms.SlotID {
	v, _ := s.Load(dms.MessageSourceOID)
	slot, _ := dms.ParseSlotTokens(v.Tokens())

	return slot
}

// Checksum returns the message checksum the sign reports for slot.
func (s *Sign) Checksum(slot dms.SlotID) uint16 {
	v, _ := s.Load(slot.ChecksumOID())
	n, _ := v.Int()

	return uint16(n)
}

// SetSilent makes the sign ignore every request while on.
func (s *Sign) SetSilent(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = on
}

// SetNullActivationEcho makes the sign answer activations with a null value.
func (s *Sign) SetNullActivationEcho(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nullEcho = on
}

// Requests returns the number of requests answered.
func (s *Sign) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

// Opens returns the number of times the port was opened.
func (s *Sign) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.opens
}

// Write consumes one request frame and queues the reply.
func (s *Sign) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.silent {
		return len(b), nil
	}

	frame, err := pmpp.DecodeVerified(b, s.checksum)
	if err != nil {
		s.logger.Debug("simsign: dropped frame", "error", err)
		return len(b), nil
	}

	decoder := &gosnmp.GoSNMP{Version: gosnmp.Version1}
	req, err := decoder.SnmpDecodePacket(frame.Payload)
	if err != nil {
		s.logger.Debug("simsign: dropped request", "error", err)
		return len(b), nil
	}

	resp := s.handle(req)
	raw, err := resp.MarshalMsg()
	if err != nil {
		s.logger.Error("simsign: encode reply failed", "error", err)
		return len(b), nil
	}

	s.requests++
	s.pending = append(s.pending, pmpp.Encode(s.address, raw, s.checksum)...)

	return len(b), nil
}

// Read returns queued reply bytes, or zero bytes after the read timeout.
func (s *Sign) Read(b []byte) (int, error) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		timeout := s.readTimeout
		s.mu.Unlock()
		time.Sleep(timeout)

		return 0, nil
	}
	defer s.mu.Unlock()

	n := copy(b, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// SetReadTimeout sets how long Read waits when nothing is queued.
func (s *Sign) SetReadTimeout(t time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimeout = t

	return nil
}

// Close discards unread reply bytes. The sign keeps its state and can be
// opened again.
func (s *Sign) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil

	return nil
}

func (s *Sign) storeMessage(slot dms.SlotID, text, owner string, priority int64, status dms.MessageStatus) {
	s.Store(slot.MessageTextOID(), snmp.StringValue(text))
	s.Store(slot.OwnerOID(), snmp.StringValue(owner))
	s.Store(slot.PriorityOID(), snmp.IntegerValue(priority))
	s.Store(slot.StatusOID(), snmp.IntegerValue(int64(status)))
	s.Store(slot.ChecksumOID(), snmp.IntegerValue(int64(s.messageCRC(text))))
}

func (s *Sign) setSource(slot dms.SlotID) {
	b := make([]byte, 5)
	b[0] = byte(slot.Type)
	binary.BigEndian.PutUint16(b[1:3], slot.Column)
	binary.BigEndian.PutUint16(b[3:5], s.Checksum(slot))
	s.Store(dms.MessageSourceOID, snmp.OctetStringValue(b))
}

func (s *Sign) messageCRC(text string) uint16 {
	sum := s.msgCRC.Compute([]byte(text))
	return uint16(sum[0])<<8 | uint16(sum[1])
}

func (s *Sign) status(slot dms.SlotID) dms.MessageStatus {
	v, _ := s.Load(slot.StatusOID())
	n, _ := v.Int()

	return dms.MessageStatus(n)
}

// tableColumn splits a dmsMessageEntry object into its column and slot.
func tableColumn(oid snmp.OID) (uint32, dms.SlotID, bool) {
	entry := dms.MessageTableEntry
	if len(oid) != len(entry)+3 || !oid[:len(entry)].Equal(entry) {
		return 0, dms.SlotID{}, false
	}

	tail := oid[len(entry):]
	if tail[1] > 0xFF || tail[2] > 0xFFFF {
		return 0, dms.SlotID{}, false
	}

	return tail[0], dms.SlotID{Type: dms.MemoryType(tail[1]), Column: uint16(tail[2])}, true
}
