package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goplus/autotools/pkgs/buildsys"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	options
	output    string
	quiet     bool
	pkgConfig bool
}

func newBuildCmd() *cobra.Command {
	o := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Configure, make and install a source tree",
		Long: `Build runs autoreconf (when asked or when only configure.ac exists), configure,
make and make install, then prints the install prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, o)
		},
	}
	addBuildFlags(cmd, &o.options)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Copy the installed tree to a directory or .zip file")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "Discard the output of configure and make")
	cmd.Flags().BoolVar(&o.pkgConfig, "pkg-config", false, "Print pkg-config flags of the installed packages")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string, o *buildOptions) error {
	c, err := o.newConfig(cmd, args)
	if err != nil {
		return err
	}
	// Resolve output path to absolute before build
	if o.output != "" {
		if o.output, err = filepath.Abs(o.output); err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
	}
	if o.quiet {
		c.Output(io.Discard, io.Discard)
	} else {
		c.Output(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	}

	prefix, err := build(cmd.Context(), c)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, prefix)

	if o.pkgConfig {
		if err := printPkgConfigInfo(out, prefix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if o.output != "" {
		if err := outputResult(prefix, o.output, c.BuildDir()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func build(ctx context.Context, b buildsys.BuildSystem) (string, error) {
	return b.Build(ctx)
}
