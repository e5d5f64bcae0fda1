package autotools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/renameio"
	"github.com/qiniu/x/log"
)

// Runner executes one process and waits for it. A process that ran and
// exited non-zero must be reported with an error that has an
// ExitCode() int method, as *exec.ExitError does; any other error is
// treated as a failure to start the program.
type Runner interface {
	Run(ctx context.Context, spec ProcessSpec) error
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct {
	// Stdout and Stderr default to the process's own streams.
	Stdout io.Writer
	Stderr io.Writer
	// Shell runs every program through `sh -c 'exec "$0" "$@"'`. Needed on
	// Windows, where configure and autoreconf are scripts only an MSYS or
	// Cygwin shell can start. Exit status 127 is reported as a missing
	// program only when sh says its exec failed; a program that itself
	// exits 127 keeps that status.
	Shell bool
}

func (r *ExecRunner) Run(ctx context.Context, spec ProcessSpec) error {
	name, args := spec.Program, spec.Args
	if r.Shell {
		name, args = "sh", append([]string{"-c", `exec "$0" "$@"`, spec.Program}, spec.Args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	var tail *tailWriter
	if r.Shell {
		tail = &tailWriter{w: cmd.Stderr}
		cmd.Stderr = tail
	}
	cmd.Env = mergeEnv(os.Environ(), spec.Env)
	err := cmd.Run()

	var exit *exec.ExitError
	if tail != nil && errors.As(err, &exit) && exit.ExitCode() == 127 && shellExecFailed(tail.buf, spec.Program) {
		return &exec.Error{Name: spec.Program, Err: exec.ErrNotFound}
	}
	return err
}

// shellExecFailed reports whether sh's stderr says it could not exec prog:
// dash and bash in POSIX mode print "exec: <prog>: not found", bash prints
// "<prog>: line 1: <prog>: No such file or directory" for paths.
func shellExecFailed(stderr []byte, prog string) bool {
	out := string(stderr)
	return strings.Contains(out, "exec: "+prog+": not found") ||
		strings.Contains(out, prog+": line 1: "+prog+": No such file or directory")
}

// tailWriter passes writes through and keeps the last bytes written.
type tailWriter struct {
	w   io.Writer
	buf []byte
}

const tailSize = 4096

func (t *tailWriter) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > tailSize {
		t.buf = t.buf[len(t.buf)-tailSize:]
	}
	return t.w.Write(p)
}

func (c *Config) processRunner() Runner {
	if c.runner != nil {
		return c.runner
	}
	return &ExecRunner{Shell: runtime.GOOS == "windows"}
}

// Build runs autoreconf (when requested or needed), configure, make and
// make install, and returns the install prefix. It stops at the first
// failing step; whatever that step left on disk stays there.
func (c *Config) Build(ctx context.Context) (string, error) {
	specs, l, err := c.plan()
	if err != nil {
		return "", err
	}
	if err := c.execute(ctx, l, specs); err != nil {
		return "", err
	}
	return l.prefix, nil
}

// Configure runs only autoreconf and configure.
func (c *Config) Configure(ctx context.Context) error {
	specs, l, err := c.plan()
	if err != nil {
		return err
	}
	var steps []ProcessSpec
	for _, s := range specs {
		if s.Step == StepAutoreconf || s.Step == StepConfigure {
			steps = append(steps, s)
		}
	}
	return c.execute(ctx, l, steps)
}

func (c *Config) execute(ctx context.Context, l layout, specs []ProcessSpec) error {
	for _, dir := range []string{l.prefix, l.build} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "create", Path: dir, Err: err}
		}
	}
	r := c.processRunner()
	for _, spec := range specs {
		if spec.Step == StepConfigure && c.fastBuild && configured(l.build, spec) {
			log.Debugf("autotools: %s already configured with the same options, skipping configure", l.build)
			continue
		}
		log.Infof("running: %s (in %s)", spec, spec.Dir)
		if err := r.Run(ctx, spec); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("autotools: %s: %w", spec.Step, ctx.Err())
			}
			return stepError(spec, err)
		}
		if spec.Step == StepConfigure && c.fastBuild {
			p := filepath.Join(l.build, stampFile)
			if err := renameio.WriteFile(p, []byte(stamp(spec)), 0o644); err != nil {
				return &IOError{Op: "write", Path: p, Err: err}
			}
		}
	}
	return nil
}

func stepError(spec ProcessSpec, err error) error {
	var exit interface{ ExitCode() int }
	switch {
	case errors.As(err, &exit):
		return &StepFailedError{Step: spec.Step, ExitCode: exit.ExitCode()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("autotools: %s: %w", spec.Step, err)
	}
	return &ToolNotFoundError{Step: spec.Step, Program: spec.Program, Err: err}
}

// stampFile records the configure command line of a fast build.
const stampFile = "configure.prev"

func stamp(spec ProcessSpec) string {
	return spec.String() + "\n" + strings.Join(envLines(spec.Env), "\n") + "\n"
}

// configured reports whether dir holds a finished configure run with the
// same command line as spec.
func configured(dir string, spec ProcessSpec) bool {
	for _, f := range []string{"config.status", "Makefile"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			return false
		}
	}
	prev, err := os.ReadFile(filepath.Join(dir, stampFile))
	return err == nil && string(prev) == stamp(spec)
}
