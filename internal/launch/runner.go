// Where: internal/launch/runner.go
// What: Docker client process launcher.
// Why: Run docker with inherited stdio and teleport its exit code back.
package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// CommandRunner executes the docker client binary. The returned int is
// the child's exit code; it is only meaningful when err is nil.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, extraEnv []string) (int, error)
}

// ExecRunner runs the docker binary with stdio inherited and the given
// variables appended to the current environment.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, extraEnv []string) (int, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return 0, &LaunchError{Command: name, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extraEnv...)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, &LaunchError{Command: name, Err: err}
	}
	return 0, nil
}
