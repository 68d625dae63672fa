package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/go-dms/dms"
)

func GetMessageCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get-message",
		Short: "Print the message currently displayed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			msg, err := env.controller.ReadCurrentMessageErr(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "slot %s (%s)\n%s\n", msg.Slot, msg.Slot.Type, msg.Text)

			return nil
		},
	}
}

func ActivateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate <memory-type> <column>",
		Short: "Display the message stored in a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0], args[1])
			if err != nil {
				return err
			}

			crcHex, err := cmd.Flags().GetString("crc")
			if err != nil {
				return err
			}

			env, err := newEnvironment(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var code dms.ActivationCode
			if crcHex == "" {
				code, err = env.controller.Activate(cmd.Context(), slot)
			} else {
				var crc uint64
				crc, err = strconv.ParseUint(crcHex, 16, 16)
				if err != nil {
					return fmt.Errorf("invalid checksum %q: %w", crcHex, err)
				}
				code, err = env.controller.ActivateWithCRC(cmd.Context(), slot, uint16(crc))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "activated slot %s crc %04X\n", code.Slot, code.CRC)

			return nil
		},
	}

	cmd.Flags().String("crc", "", "use this message checksum (hex) instead of reading it")

	return cmd
}

func WriteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "write <memory-type> <column> <text>",
		Short: "Store a message in a slot and display it",
		Long: "Store a MULTI message in a slot, ask the sign to validate it and display it.\n" +
			"The steps are not atomic: a failure leaves the slot partly updated.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0], args[1])
			if err != nil {
				return err
			}

			env, err := newEnvironment(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			results, err := env.controller.WriteMessageErr(cmd.Context(), dms.Message{Slot: slot, Text: args[2]})
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}

			return err
		},
	}
}

func parseSlot(memType, column string) (dms.SlotID, error) {
	t, err := dms.ParseMemoryType(memType)
	if err != nil {
		return dms.SlotID{}, err
	}

	col, err := strconv.ParseUint(column, 10, 16)
	if err != nil {
		return dms.SlotID{}, fmt.Errorf("invalid column %q: %w", column, err)
	}

	return dms.SlotID{Type: t, Column: uint16(col)}, nil
}
