package dms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/snmp"
)

// Manager issues single management operations to the sign.
// *snmp.Client implements Manager.
type Manager interface {
	Get(ctx context.Context, oid snmp.OID) (snmp.Value, error)
	Set(ctx context.Context, oid snmp.OID, value snmp.Value) (snmp.Value, error)
}

var _ Manager = (*snmp.Client)(nil)

// Controller runs the NTCIP 1203 message workflows against one sign.
type Controller struct {
	mgr     Manager
	opts    Options
	logger  logger.Logger
	metrics ControllerMetrics
}

// NewController returns a Controller issuing its operations through mgr.
func NewController(mgr Manager, opts ...Option) (*Controller, error) {
	if mgr == nil {
		return nil, ErrManagerNil
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt.apply(&o); err != nil {
			return nil, err
		}
	}

	return &Controller{
		mgr:    mgr,
		opts:   o,
		logger: o.logger,
	}, nil
}

// Options returns the settings of the controller.
func (c *Controller) Options() Options { return c.opts }

// GetMetrics returns the controller counters.
func (c *Controller) GetMetrics() *ControllerMetrics { return &c.metrics }

// ReadCurrentMessage returns the text of the message currently displayed.
// It returns ("", false) on any failure.
func (c *Controller) ReadCurrentMessage(ctx context.Context) (string, bool) {
	msg, err := c.ReadCurrentMessageErr(ctx)
	if err != nil {
		return "", false
	}

	return msg.Text, true
}

// ReadCurrentMessageErr reads the active slot and the text stored in it.
// The returned Message carries the slot and text only.
func (c *Controller) ReadCurrentMessageErr(ctx context.Context) (Message, error) {
	c.metrics.incReadCount()

	msg, err := c.readCurrentMessage(ctx)
	if err != nil {
		c.metrics.incReadErrCount()
		c.logger.Warn("dms: read current message failed", "error", err)

		return Message{}, err
	}

	return msg, nil
}

func (c *Controller) readCurrentMessage(ctx context.Context) (Message, error) {
	src, err := c.get(ctx, MessageSourceOID)
	if err != nil {
		return Message{}, fmt.Errorf("dms: read active slot: %w", err)
	}

	tokens := src.Tokens()
	c.diag(strings.Join(tokens, " "))

	slot, err := ParseSlotTokens(tokens)
	if err != nil {
		return Message{}, err
	}
	c.diag(fmt.Sprintf("mtype=%d mcol=%d", slot.Type, slot.Column))

	text, err := c.get(ctx, slot.MessageTextOID())
	if err != nil {
		return Message{}, fmt.Errorf("dms: read message text of slot %s: %w", slot, err)
	}
	if text.Kind() != snmp.KindOctetString {
		return Message{}, fmt.Errorf("%w: message text of slot %s is %s", snmp.ErrValueKind, slot, text.Kind())
	}

	return Message{Slot: slot, Text: text.Text()}, nil
}

// ActivateSlot displays the message stored at (slotType, column), using the
// checksum the sign reports for it. It returns false on any failure.
func (c *Controller) ActivateSlot(ctx context.Context, slotType MemoryType, column uint16) bool {
	_, err := c.Activate(ctx, SlotID{Type: slotType, Column: column})
	return err == nil
}

// ActivateSlotWithCRC displays the message stored at (slotType, column)
// using a checksum the caller already knows. It returns false on any failure.
func (c *Controller) ActivateSlotWithCRC(ctx context.Context, slotType MemoryType, column uint16, crc uint16) bool {
	_, err := c.ActivateWithCRC(ctx, SlotID{Type: slotType, Column: column}, crc)
	return err == nil
}

// Activate reads the stored checksum of slot and sends the activation code
// for it. It returns the code that was sent.
func (c *Controller) Activate(ctx context.Context, slot SlotID) (ActivationCode, error) {
	c.metrics.incActivateCount()

	crc, err := c.readChecksum(ctx, slot)
	if err != nil {
		c.metrics.incActivateErrCount()
		c.logger.Warn("dms: activation failed", "slot", slot.String(), "error", err)

		return ActivationCode{}, err
	}

	return c.activate(ctx, slot, crc)
}

// ActivateWithCRC sends the activation code for slot with the given
// checksum, without reading it from the sign.
func (c *Controller) ActivateWithCRC(ctx context.Context, slot SlotID, crc uint16) (ActivationCode, error) {
	c.metrics.incActivateCount()

	return c.activate(ctx, slot, crc)
}

func (c *Controller) activate(ctx context.Context, slot SlotID, crc uint16) (ActivationCode, error) {
	code, err := c.sendActivation(ctx, slot, crc)
	if err != nil {
		c.metrics.incActivateErrCount()
		c.logger.Warn("dms: activation failed", "slot", slot.String(), "error", err)

		return ActivationCode{}, err
	}

	c.logger.Info("dms: slot activated", "slot", slot.String(), "crc", fmt.Sprintf("%04X", crc))

	return code, nil
}

func (c *Controller) readChecksum(ctx context.Context, slot SlotID) (uint16, error) {
	v, err := c.get(ctx, slot.ChecksumOID())
	if err != nil {
		return 0, fmt.Errorf("dms: read checksum of slot %s: %w", slot, err)
	}

	switch v.Kind() {
	case snmp.KindInteger:
		n, _ := v.Int()
		if n < 0 || n > 0xFFFF {
			return 0, fmt.Errorf("%w: %d", ErrInvalidChecksum, n)
		}
		c.diag(fmt.Sprintf("crc=%04X", n))

		return uint16(n), nil
	case snmp.KindOctetString:
		b := v.Bytes()
		if len(b) != 2 {
			return 0, fmt.Errorf("%w: %d bytes", ErrInvalidChecksum, len(b))
		}
		c.diag(fmt.Sprintf("crc=%02X%02X", b[0], b[1]))

		return uint16(b[0])<<8 | uint16(b[1]), nil
	default:
		return 0, fmt.Errorf("%w: got %s", ErrInvalidChecksum, v.Kind())
	}
}

func (c *Controller) sendActivation(ctx context.Context, slot SlotID, crc uint16) (ActivationCode, error) {
	code := ActivationCode{
		Duration: c.opts.activationDuration,
		Priority: c.opts.activationPriority,
		Slot:     slot,
		CRC:      crc,
	}

	echo, err := c.set(ctx, ActivateMessageOID, snmp.OctetStringValue(code.Bytes()))
	if err != nil {
		return ActivationCode{}, fmt.Errorf("dms: activate slot %s: %w", slot, err)
	}
	if echo.IsNull() {
		return ActivationCode{}, fmt.Errorf("%w: activate slot %s: empty echo", snmp.ErrDeviceRejection, slot)
	}

	return code, nil
}

// WriteMessage stores msg in its slot, asks the sign to validate it and
// activates it. It returns false on any failure; steps already applied are
// not rolled back.
func (c *Controller) WriteMessage(ctx context.Context, msg Message) bool {
	_, err := c.WriteMessageErr(ctx, msg)
	return err == nil
}

// WriteMessageErr runs the write workflow and returns the result of every
// step that was attempted. The last result holds the failure, if any; no
// step after it is issued.
func (c *Controller) WriteMessageErr(ctx context.Context, msg Message) ([]StepResult, error) {
	c.metrics.incWriteCount()

	results, err := runSteps(ctx, c.writeSteps(msg))
	if err != nil {
		c.metrics.incWriteErrCount()
		c.logger.Warn("dms: write message failed", "slot", msg.Slot.String(), "steps", len(results), "error", err)

		return results, err
	}

	c.logger.Info("dms: message written", "slot", msg.Slot.String())

	return results, nil
}

func (c *Controller) writeSteps(msg Message) []Step {
	owner := msg.Owner
	if owner == "" {
		owner = c.opts.owner
	}
	priority := msg.Priority
	if priority == 0 {
		priority = c.opts.priority
	}

	slot := msg.Slot
	var crc uint16

	return []Step{
		c.setStep("modify request", slot.StatusOID(), snmp.IntegerValue(int64(StatusModifyReq))),
		c.setStep("message text", slot.MessageTextOID(), snmp.StringValue(msg.Text)),
		c.setStep("owner", slot.OwnerOID(), snmp.StringValue(owner)),
		c.setStep("priority", slot.PriorityOID(), snmp.IntegerValue(int64(priority))),
		c.setStep("validate request", slot.StatusOID(), snmp.IntegerValue(int64(StatusValidateReq))),
		{
			Name: "read checksum",
			OID:  slot.ChecksumOID(),
			Run: func(ctx context.Context) (snmp.Value, error) {
				var err error
				crc, err = c.readChecksum(ctx, slot)

				return snmp.IntegerValue(int64(crc)), err
			},
		},
		{
			Name: "activate",
			OID:  ActivateMessageOID,
			Run: func(ctx context.Context) (snmp.Value, error) {
				code, err := c.sendActivation(ctx, slot, crc)
				if err != nil {
					return snmp.Value{}, err
				}

				return snmp.OctetStringValue(code.Bytes()), nil
			},
		},
	}
}

func (c *Controller) setStep(name string, oid snmp.OID, value snmp.Value) Step {
	return Step{
		Name: name,
		OID:  oid,
		Run: func(ctx context.Context) (snmp.Value, error) {
			return c.set(ctx, oid, value)
		},
	}
}

func (c *Controller) get(ctx context.Context, oid snmp.OID) (snmp.Value, error) {
	c.diag(oid.String())
	return c.mgr.Get(ctx, oid)
}

func (c *Controller) set(ctx context.Context, oid snmp.OID, value snmp.Value) (snmp.Value, error) {
	c.diag(oid.String())
	return c.mgr.Set(ctx, oid, value)
}

func (c *Controller) diag(s string) {
	c.opts.diagnostics(s)
}

// IsRejection reports whether err means the sign answered but refused the
// operation, as opposed to a link or framing failure.
func IsRejection(err error) bool {
	return errors.Is(err, snmp.ErrDeviceRejection)
}
