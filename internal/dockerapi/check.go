// Where: internal/dockerapi/check.go
// What: Connectivity probe against the proxied docker endpoint.
// Why: Let users verify credentials without running a docker command.
package dockerapi

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/dockwrap/portainer-docker/internal/ui"
)

// Pinger defines the subset of Docker SDK methods used by the probe.
// This interface enables faking the Docker client in tests.
type Pinger interface {
	Ping(ctx context.Context) (types.Ping, error)
}

// Check pings the proxied docker endpoint and reports the result.
func Check(ctx context.Context, pinger Pinger, out io.Writer) error {
	ping, err := pinger.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping docker endpoint: %w", err)
	}

	console := ui.New(out)
	console.Success("Portainer docker endpoint is reachable")
	if ping.APIVersion != "" {
		console.Item("API version", ping.APIVersion)
	}
	if ping.OSType != "" {
		console.Item("OS type", ping.OSType)
	}
	return nil
}
