package autotools

import "fmt"

// ConfigurationError reports a source tree that cannot be configured. It is
// returned before any process is spawned.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("autotools: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("autotools: %s: %s", e.Path, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ToolNotFoundError reports a step whose program could not be started.
type ToolNotFoundError struct {
	Step    string
	Program string
	Err     error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("autotools: %s: failed to execute %s: %v (is `%s` installed?)", e.Step, e.Program, e.Err, e.Program)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// StepFailedError reports a step that exited with a non-zero status.
type StepFailedError struct {
	Step     string
	ExitCode int
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("autotools: %s did not execute successfully, exit status %d", e.Step, e.ExitCode)
}

// IOError reports a filesystem failure around the build tree.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("autotools: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
