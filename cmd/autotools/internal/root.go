package internal

import (
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "autotools",
		Short: "autotools builds configure/make based C libraries",
		Long: `autotools runs autoreconf, configure, make and make install for a source tree
and reports the install prefix, so the result can be linked from other builds.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetOutputLevel(log.Ldebug)
			} else {
				log.SetOutputLevel(log.Linfo)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(newBuildCmd(), newConfigureCmd(), newPlanCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
