// Where: internal/launch/errors.go
// What: Typed launch errors.
// Why: Let the CLI map a missing docker binary to a distinguished exit code.
package launch

import "fmt"

// LaunchError reports that the docker client binary could not be located
// or executed. It is terminal; nothing is retried.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
