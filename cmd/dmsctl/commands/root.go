// Package commands implements the dmsctl command line.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arloliu/go-dms/crc"
	"github.com/arloliu/go-dms/logger"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. DMS_PORT or DMS_RESPONSE_DELAY.
const EnvPrefix = "DMS"

// DmsctlCmd returns the root command.
func DmsctlCmd(version string) *cobra.Command {
	var v *viper.Viper

	cmd := &cobra.Command{
		Use:   "dmsctl",
		Short: "Control a Dynamic Message Sign over a serial link",
		Long: "dmsctl reads and changes the message shown by an NTCIP 1203 Dynamic Message Sign\n" +
			"connected to a serial port. Settings come from flags, DMS_* environment variables\n" +
			"and an optional YAML file given with --config, in that order of precedence.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v)
		},
	}

	addPersistentFlags(cmd.PersistentFlags())

	v, err := newViper(cmd.PersistentFlags())
	if err != nil {
		panic(err)
	}

	cmd.AddCommand(
		PortsCmd(),
		GetMessageCmd(v),
		ActivateCmd(v),
		WriteCmd(v),
		GetCmd(v),
		SetCmd(v),
	)

	return cmd
}

func addPersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML settings file")
	flags.String("port", "", "serial port of the sign, e.g. /dev/ttyUSB0 or COM1")
	flags.Int("baud", 9600, "line speed")
	flags.Int("data-bits", 8, "data bits per character")
	flags.String("stop-bits", "1", "stop bits: 1, 1.5 or 2")
	flags.String("parity", "none", "parity: none, odd, even, mark or space")
	flags.String("address", "0513C1", "device address, 3 bytes in hex")
	flags.String("checksum", crc.Default().Name(), "frame checksum: "+strings.Join(crc.Names(), ", "))
	flags.Bool("verify-frames", false, "check markers and checksum of replies")
	flags.Duration("write-timeout", 8*time.Second, "maximum time to write a request")
	flags.Duration("read-timeout", 5*time.Second, "maximum time to read a reply")
	flags.Duration("response-delay", DefaultResponseDelay, "wait between a request and reading the reply")
	flags.Duration("poll-interval", 50*time.Millisecond, "idle time that ends a reply")
	flags.String("community", "public", "SNMP community")
	flags.String("owner", "", "message owner written with messages (default \"DDOT ITS\")")
	flags.Uint8("priority", 1, "message run-time priority")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("simulate", false, "talk to an in-memory simulated sign instead of a port")
	flags.Bool("trace", false, "print the object paths issued and values parsed")
}

// newViper layers DMS_* environment variables over the flags.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	return v, nil
}

func loadConfig(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level, ok := logger.ParseLevel(v.GetString("log-level"))
	if !ok {
		return fmt.Errorf("unknown log level %q", v.GetString("log-level"))
	}
	logger.SetLevel(level)

	return nil
}
