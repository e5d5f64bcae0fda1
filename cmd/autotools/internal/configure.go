package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigureCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "configure [source]",
		Short: "Run configure without building",
		Long:  `Configure prepares the build directory the same way build does and stops after configure.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.newConfig(cmd, args)
			if err != nil {
				return err
			}
			c.Output(cmd.ErrOrStderr(), cmd.ErrOrStderr())
			if err := c.Configure(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.OutputDir())
			return nil
		},
	}
	addBuildFlags(cmd, o)
	return cmd
}
