// Where: internal/app/error_helpers.go
// What: Shared CLI error output and exit-code mapping.
// Why: Keep wrapper failures distinguishable from docker's own exit codes.
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/launch"
)

const (
	exitOK      = 0
	exitFailure = 1
	// exitConfig mirrors EX_CONFIG from sysexits.
	exitConfig = 78
	// exitLaunch mirrors the shell's command-not-found convention.
	exitLaunch = 127
)

// exitWithError prints an error message to the error writer and returns
// the exit code matching the error kind.
func exitWithError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "✗ %v\n", err)

	var confErr *config.ConfigurationError
	if errors.As(err, &confErr) {
		return exitConfig
	}
	var launchErr *launch.LaunchError
	if errors.As(err, &launchErr) {
		return exitLaunch
	}
	return exitFailure
}
