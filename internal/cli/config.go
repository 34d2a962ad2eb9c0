package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/cli/common"
	"remotepipe.dev/remotepipe/internal/config"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set project configuration",
		Long: fmt.Sprintf(`Get and set project configuration values.

Keys: %s

Examples:
  remotepipe config get fallbackBranch
  remotepipe config set matchBranches true
  remotepipe config set localMarker .ci/enabled`, strings.Join(config.Keys(), ", ")),
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				value, err := ctx.Config.Get(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(ctx.Out, value)
				return nil
			})
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				key, value := args[0], args[1]
				if err := ctx.Config.Set(key, value); err != nil {
					return err
				}
				if err := ctx.Config.Save(ctx.ConfigPath); err != nil {
					return err
				}
				actual, _ := ctx.Config.Get(key)
				ctx.Splog.Info("Set %s to: %s", key, actual)
				return nil
			})
		},
	}
}
