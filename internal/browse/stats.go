package browse

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner runs an external program and returns its standard output.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type StatsStatus int

const (
	StatsOK StatsStatus = iota
	StatsInvalidPath
	StatsUnavailable
)

func (s StatsStatus) String() string {
	switch s {
	case StatsOK:
		return "ok"
	case StatsInvalidPath:
		return "invalid_path"
	case StatsUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// StatsResult is the outcome of one stats run. Output is the tool's text,
// unparsed; Message is set when Status is not StatsOK. Cause keeps the
// underlying failure for logging and is never shown to users.
type StatsResult struct {
	Status  StatsStatus
	Output  string
	Message string
	Cause   error
}

// Err maps the result onto the package's sentinel errors.
func (r StatsResult) Err() error {
	switch r.Status {
	case StatsOK:
		return nil
	case StatsInvalidPath:
		return ErrInvalidDirectory
	default:
		return ErrStatsUnavailable
	}
}

// StatsInvoker hands a resolved directory to an external statistics tool
// such as cloc.
type StatsInvoker struct {
	command string
	runner  CommandRunner
}

func NewStatsInvoker(command string, runner CommandRunner) *StatsInvoker {
	if runner == nil {
		runner = ExecRunner{}
	}

	return &StatsInvoker{command: command, runner: runner}
}

func (s *StatsInvoker) Command() string {
	return s.command
}

// FailureMessage is the fixed text returned when the tool yields nothing.
func (s *StatsInvoker) FailureMessage() string {
	return fmt.Sprintf("Failed to execute '%s' command.", s.command)
}

// Invoke resolves relative under root and runs the tool with the resolved
// path as its only argument. A rejected path never reaches the tool. Empty
// stdout is the only failure signal once the tool has started; a non-zero
// exit with output is returned as output. No deadline is applied here; ctx
// carries whatever the caller wants.
func (s *StatsInvoker) Invoke(ctx context.Context, root Root, relative string) StatsResult {
	resolved, err := Resolve(root, relative)
	if err != nil {
		return StatsResult{
			Status:  StatsInvalidPath,
			Message: err.Error(),
			Cause:   err,
		}
	}

	out, err := s.runner.Output(ctx, s.command, resolved.String())

	// A tool that printed something and then exited non-zero still answered.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(out) > 0 {
		err = nil
	}

	if err == nil && len(out) == 0 {
		err = errors.New("no output captured")
	}

	if err != nil {
		return StatsResult{
			Status:  StatsUnavailable,
			Message: s.FailureMessage(),
			Cause:   fmt.Errorf("%s %s: %w", s.command, resolved, err),
		}
	}

	return StatsResult{
		Status: StatsOK,
		Output: string(out),
	}
}
