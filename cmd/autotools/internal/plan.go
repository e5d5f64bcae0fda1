package internal

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/goplus/autotools/pkgs/buildsys/autotools"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	o := &options{}
	var showEnv bool
	cmd := &cobra.Command{
		Use:   "plan [source]",
		Short: "Print the commands build would run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.newConfig(cmd, args)
			if err != nil {
				return err
			}
			specs, err := c.Plan()
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), specs, showEnv)
			return nil
		},
	}
	addBuildFlags(cmd, o)
	cmd.Flags().BoolVar(&showEnv, "show-env", false, "Also print the environment each step adds")
	return cmd
}

func printPlan(w io.Writer, specs []autotools.ProcessSpec, showEnv bool) {
	for _, s := range specs {
		fmt.Fprintf(w, "# %s (in %s)\n", s.Step, s.Dir)
		if showEnv {
			for _, k := range slices.Sorted(maps.Keys(s.Env)) {
				fmt.Fprintf(w, "#   %s=%s\n", k, s.Env[k])
			}
		}
		fmt.Fprintln(w, s.String())
	}
}
