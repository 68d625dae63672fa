package commands

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/go-dms/snmp"
)

func GetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <oid>",
		Short: "Read one object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oid, err := snmp.ParseOID(args[0])
			if err != nil {
				return err
			}

			env, err := newEnvironment(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			val, err := env.client.Get(cmd.Context(), oid)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s: %s\n", oid, val.Kind(), val)

			return nil
		},
	}
}

func SetCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <oid>",
		Short: "Write one object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oid, err := snmp.ParseOID(args[0])
			if err != nil {
				return err
			}

			val, err := valueFromFlags(cmd)
			if err != nil {
				return err
			}

			env, err := newEnvironment(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			echo, err := env.client.Set(cmd.Context(), oid, val)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s: %s\n", oid, echo.Kind(), echo)

			return nil
		},
	}

	cmd.Flags().Int64("int", 0, "INTEGER value")
	cmd.Flags().String("string", "", "OCTET STRING value as text")
	cmd.Flags().String("hex", "", "OCTET STRING value as hex")
	cmd.MarkFlagsMutuallyExclusive("int", "string", "hex")
	cmd.MarkFlagsOneRequired("int", "string", "hex")

	return cmd
}

func valueFromFlags(cmd *cobra.Command) (snmp.Value, error) {
	flags := cmd.Flags()

	switch {
	case flags.Changed("int"):
		n, err := flags.GetInt64("int")
		if err != nil {
			return snmp.Value{}, err
		}

		return snmp.IntegerValue(n), nil
	case flags.Changed("string"):
		s, err := flags.GetString("string")
		if err != nil {
			return snmp.Value{}, err
		}

		return snmp.StringValue(s), nil
	case flags.Changed("hex"):
		s, err := flags.GetString("hex")
		if err != nil {
			return snmp.Value{}, err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return snmp.Value{}, fmt.Errorf("invalid hex value: %w", err)
		}

		return snmp.OctetStringValue(b), nil
	}

	return snmp.Value{}, errors.New("one of --int, --string or --hex is required")
}
