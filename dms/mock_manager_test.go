package dms

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arloliu/go-dms/snmp"
)

type mockManager struct {
	mock.Mock
}

var _ Manager = (*mockManager)(nil)

func (m *mockManager) Get(ctx context.Context, oid snmp.OID) (snmp.Value, error) {
	args := m.Called(ctx, oid)
	return args.Get(0).(snmp.Value), args.Error(1)
}

func (m *mockManager) Set(ctx context.Context, oid snmp.OID, value snmp.Value) (snmp.Value, error) {
	args := m.Called(ctx, oid, value)
	return args.Get(0).(snmp.Value), args.Error(1)
}

// expectedCall is one management operation with the reply to give.
type expectedCall struct {
	method string
	oid    snmp.OID
	value  snmp.Value
	reply  snmp.Value
}

func (c expectedCall) register(m *mockManager, err error) {
	reply := c.reply
	if err != nil {
		reply = snmp.Value{}
	}

	if c.method == "Get" {
		m.On("Get", mock.Anything, c.oid).Return(reply, err).Once()
		return
	}
	m.On("Set", mock.Anything, c.oid, c.value).Return(reply, err).Once()
}

func setCall(oid snmp.OID, v snmp.Value) expectedCall {
	return expectedCall{method: "Set", oid: oid, value: v, reply: v}
}

func getCall(oid snmp.OID, reply snmp.Value) expectedCall {
	return expectedCall{method: "Get", oid: oid, reply: reply}
}

// issuedOIDs returns the method and object of every call received by m, in
// order.
func issuedOIDs(m *mockManager) []string {
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Method+" "+c.Arguments.Get(1).(snmp.OID).String())
	}

	return out
}
