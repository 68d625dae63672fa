package snmp

import (
	"context"
	"errors"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-dms/link"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/pmpp"
)

var testOID = MustParseOID("1.3.6.1.4.1.1206.4.2.3.6.5.0")

func TestClient_GetOctetString(t *testing.T) {
	port := &devicePort{reply: func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
		return respond(req, gosnmp.SnmpPDU{Name: testOID.String(), Type: gosnmp.OctetString, Value: []byte{0x03, 0x00, 0x01}})
	}}
	client := newTestClient(t, port)

	v, err := client.Get(context.Background(), testOID)
	require.NoError(t, err)
	assert.Equal(t, KindOctetString, v.Kind())
	assert.Equal(t, []string{"03", "00", "01"}, v.Tokens())

	reqs := port.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, gosnmp.GetRequest, reqs[0].PDUType)
	assert.Equal(t, DefaultCommunity, reqs[0].Community)
	require.Len(t, reqs[0].Variables, 1)
	assert.Equal(t, testOID.String(), reqs[0].Variables[0].Name)
	assert.Equal(t, gosnmp.Null, reqs[0].Variables[0].Type)
}

func TestClient_GetInteger(t *testing.T) {
	port := &devicePort{reply: func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
		return respond(req, gosnmp.SnmpPDU{Name: testOID.String(), Type: gosnmp.Integer, Value: 0x8815})
	}}
	client := newTestClient(t, port)

	v, err := client.Get(context.Background(), testOID)
	require.NoError(t, err)

	n, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(0x8815), n)
}

func TestClient_SetEchoesValue(t *testing.T) {
	port := &devicePort{reply: echo}
	client := newTestClient(t, port)

	v, err := client.Set(context.Background(), testOID, StringValue("[jl3]HELLO"))
	require.NoError(t, err)
	assert.Equal(t, "[jl3]HELLO", v.Text())

	reqs := port.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, gosnmp.SetRequest, reqs[0].PDUType)
	assert.Equal(t, gosnmp.OctetString, reqs[0].Variables[0].Type)
	assert.Equal(t, []byte("[jl3]HELLO"), reqs[0].Variables[0].Value)

	_, err = client.Set(context.Background(), testOID, IntegerValue(7))
	require.NoError(t, err)
	reqs = port.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, gosnmp.Integer, reqs[1].Variables[0].Type)
	assert.Equal(t, 7, reqs[1].Variables[0].Value)
}

func TestClient_CommunityOption(t *testing.T) {
	port := &devicePort{reply: echo}
	cfg := newTestClient(t, port).Config()

	client, err := NewClient(cfg, WithCommunity("administrator"))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), testOID)
	require.NoError(t, err)
	assert.Equal(t, "administrator", port.Requests()[0].Community)
}

func TestClient_SessionPerCall(t *testing.T) {
	port := &devicePort{reply: echo}
	client := newTestClient(t, port)

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), testOID)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, port.opens)
	assert.Equal(t, 3, port.closes)
	assert.Equal(t, uint64(3), client.GetMetrics().GetCount.Load())
	assert.Equal(t, uint64(3), client.GetMetrics().ResponseCount.Load())
	assert.Equal(t, uint64(3), client.Config().Metrics().SessionOpenCount.Load())
}

func TestClient_MissingBinding(t *testing.T) {
	other := testOID.Child(1)
	port := &devicePort{reply: func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
		return respond(req, gosnmp.SnmpPDU{Name: other.String(), Type: gosnmp.Integer, Value: 1})
	}}
	client := newTestClient(t, port)

	_, err := client.Get(context.Background(), testOID)
	require.ErrorIs(t, err, ErrProtocol)
	assert.Equal(t, uint64(1), client.GetMetrics().ErrCount.Load())
}

func TestClient_ErrorStatus(t *testing.T) {
	port := &devicePort{reply: func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
		resp := echo(req)
		resp.Error = gosnmp.BadValue
		resp.ErrorIndex = 1
		return resp
	}}
	client := newTestClient(t, port)

	_, err := client.Set(context.Background(), testOID, IntegerValue(99))
	require.ErrorIs(t, err, ErrDeviceRejection)
	assert.Contains(t, err.Error(), "badValue")
	assert.Equal(t, uint64(1), client.GetMetrics().RejectCount.Load())
}

func TestClient_NoReply(t *testing.T) {
	port := &devicePort{reply: func(*gosnmp.SnmpPacket) *gosnmp.SnmpPacket { return nil }}
	client := newTestClient(t, port)

	_, err := client.Get(context.Background(), testOID)
	require.ErrorIs(t, err, pmpp.ErrMalformedFrame)
	assert.Equal(t, 1, port.closes)
}

func TestClient_GarbageReply(t *testing.T) {
	port := &devicePort{
		reply: echo,
		mangle: func([]byte) []byte {
			return []byte{0x7E, 0x05, 0x13, 0xC1, 0x01, 0x02, 0x03, 0x00, 0x00, 0x7E}
		},
	}
	client := newTestClient(t, port)

	_, err := client.Get(context.Background(), testOID)
	require.ErrorIs(t, err, ErrProtocol)
}

func TestClient_FrameVerification(t *testing.T) {
	corrupt := func(frame []byte) []byte {
		frame[len(frame)-2] ^= 0xFF
		return frame
	}

	t.Run("disabled ignores checksum", func(t *testing.T) {
		port := &devicePort{reply: echo, mangle: corrupt}
		client := newTestClient(t, port)

		_, err := client.Get(context.Background(), testOID)
		require.NoError(t, err)
	})

	t.Run("enabled rejects checksum", func(t *testing.T) {
		port := &devicePort{reply: echo, mangle: corrupt}
		client := newTestClient(t, port, link.WithFrameVerification(true))

		_, err := client.Get(context.Background(), testOID)
		require.ErrorIs(t, err, pmpp.ErrChecksumMismatch)
	})
}

func TestClient_OpenFailurePropagates(t *testing.T) {
	openErr := errors.New("no such device")
	port := &devicePort{reply: echo}
	client := newTestClient(t, port, link.WithOpener(func(*link.Config) (link.Port, error) {
		return nil, openErr
	}))

	_, err := client.Get(context.Background(), testOID)
	require.ErrorIs(t, err, link.ErrConnection)
	require.ErrorIs(t, err, openErr)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(nil)
	require.ErrorIs(t, err, link.ErrConfigNil)

	cfg, err := link.NewConfig("COM1")
	require.NoError(t, err)
	_, err = NewClient(cfg, WithCodec(nil))
	require.Error(t, err)
}

func TestClient_WarnsOnUnescapedFlag(t *testing.T) {
	log := logger.NewMockLogger().AllowChatter()
	log.On("Warn", "snmp: payload contains unescaped frame flag", mock.Anything).Once()

	port := &devicePort{reply: echo}
	client := newTestClient(t, port, link.WithLogger(log))

	v, err := client.Set(context.Background(), testOID, StringValue("A~B"))
	require.NoError(t, err)
	assert.Equal(t, "A~B", v.Text())
	log.AssertExpectations(t)

	_, err = client.Set(context.Background(), testOID, StringValue("AB"))
	require.NoError(t, err)
	log.AssertNumberOfCalls(t, "Warn", 1)
}

func TestClient_RejectsMismatchedRequestID(t *testing.T) {
	port := &devicePort{reply: func(req *gosnmp.SnmpPacket) *gosnmp.SnmpPacket {
		resp := echo(req)
		resp.RequestID = req.RequestID + 1
		return resp
	}}
	client := newTestClient(t, port)

	_, err := client.Get(context.Background(), testOID)
	require.ErrorIs(t, err, ErrProtocol)
	assert.Contains(t, err.Error(), "request-id")
	assert.Equal(t, uint64(1), client.GetMetrics().ErrCount.Load())
}
