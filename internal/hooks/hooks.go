// Package hooks runs user-configured external commands.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a hook run when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxOutput caps the captured combined output.
const maxOutput = 4096

// Options describes one hook invocation.
type Options struct {
	// Command is the executable to run. Empty means no hook.
	Command string
	// Args are passed to the command after any arguments embedded in Command.
	Args []string
	// Env holds extra KEY=VALUE pairs appended to the current environment.
	Env []string
	// Label identifies the invocation in errors, e.g. "notify".
	Label string
	// WorkDir is the working directory. Empty means the current one.
	WorkDir string
	// Timeout bounds the run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result reports what happened.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Output   string
	Duration time.Duration
}

// Invoke runs the hook and waits for it. A non-zero exit status is
// returned as an error, with Result still describing the run.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	var result Result

	argv := strings.Fields(opts.Command)
	if len(argv) == 0 {
		return result, nil
	}
	argv = append(argv, opts.Args...)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), opts.Env...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Children of the hook may hold the output pipe open after a kill.
	cmd.WaitDelay = time.Second

	result.Command = argv
	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = capOutput(out.String())

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return result, fmt.Errorf("%s hook %q: %w", label(opts.Label), argv[0], err)
	}
	result.Ran = true
	result.ExitCode = exitCodeFromError(err)
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("%s hook %q: %w", label(opts.Label), argv[0], ctx.Err())
		}
		return result, fmt.Errorf("%s hook %q exited with code %d: %w", label(opts.Label), argv[0], result.ExitCode, err)
	}
	return result, nil
}

func label(l string) string {
	if l == "" {
		return "run"
	}
	return l
}

func capOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutput {
		return s[:maxOutput]
	}
	return s
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
