package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/dms"
	"github.com/arloliu/go-dms/internal/simsign"
	"github.com/arloliu/go-dms/link"
	"github.com/arloliu/go-dms/logger"
	"github.com/arloliu/go-dms/snmp"
)

// DefaultResponseDelay is the wait deployed signs need before answering.
const DefaultResponseDelay = 800 * time.Millisecond

// simulatedPort names the port used with --simulate when none is given.
const simulatedPort = "simulated"

// environment is what a command needs to talk to the sign.
type environment struct {
	client     *snmp.Client
	controller *dms.Controller
	sign       *simsign.Sign
}

func linkOptions(v *viper.Viper) ([]link.Option, error) {
	stopBits, err := link.ParseStopBits(v.GetString("stop-bits"))
	if err != nil {
		return nil, err
	}
	parity, err := link.ParseParity(v.GetString("parity"))
	if err != nil {
		return nil, err
	}
	addr, err := link.ParseAddress(v.GetString("address"))
	if err != nil {
		return nil, err
	}
	engine, err := crc.Lookup(v.GetString("checksum"))
	if err != nil {
		return nil, err
	}

	return []link.Option{
		link.WithBaudRate(v.GetInt("baud")),
		link.WithDataBits(v.GetInt("data-bits")),
		link.WithStopBits(stopBits),
		link.WithParity(parity),
		link.WithAddress(addr),
		link.WithChecksum(engine),
		link.WithFrameVerification(v.GetBool("verify-frames")),
		link.WithWriteTimeout(v.GetDuration("write-timeout")),
		link.WithReadTimeout(v.GetDuration("read-timeout")),
		link.WithResponseDelay(v.GetDuration("response-delay")),
		link.WithPollInterval(v.GetDuration("poll-interval")),
	}, nil
}

func controllerOptions(v *viper.Viper, trace io.Writer) []dms.Option {
	opts := []dms.Option{}
	if owner := v.GetString("owner"); owner != "" {
		opts = append(opts, dms.WithOwner(owner))
	}
	if p := v.GetUint("priority"); p > 0 && p <= 0xFF {
		opts = append(opts, dms.WithPriority(uint8(p)))
	}
	if trace != nil {
		opts = append(opts, dms.WithDiagnostics(func(s string) {
			fmt.Fprintln(trace, s)
		}))
	}

	return opts
}

func newEnvironment(v *viper.Viper, trace io.Writer) (*environment, error) {
	opts, err := linkOptions(v)
	if err != nil {
		return nil, err
	}

	env := &environment{}

	port := v.GetString("port")
	if v.GetBool("simulate") {
		env.sign = simsign.New(simsign.WithLogger(logger.GetLogger()))
		opts = append(opts, link.WithOpener(env.sign.Opener()))
		if port == "" {
			port = simulatedPort
		}
	}
	if port == "" {
		return nil, errors.New("no serial port given, use --port or DMS_PORT")
	}

	cfg, err := link.NewConfig(port, opts...)
	if err != nil {
		return nil, err
	}

	env.client, err = snmp.NewClient(cfg, snmp.WithCommunity(v.GetString("community")))
	if err != nil {
		return nil, err
	}

	if !v.GetBool("trace") {
		trace = nil
	}
	env.controller, err = dms.NewController(env.client, controllerOptions(v, trace)...)
	if err != nil {
		return nil, err
	}

	return env, nil
}
