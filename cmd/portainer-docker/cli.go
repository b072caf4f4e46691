// Where: cmd/portainer-docker/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/dockwrap/portainer-docker/internal/app"
	"github.com/dockwrap/portainer-docker/internal/launch"
)

// buildDependencies constructs the runtime dependencies required by the
// CLI. Token fetching and the connectivity probe keep their package
// defaults; only the ambient pieces are bound here.
func buildDependencies() app.Dependencies {
	return app.Dependencies{
		Out:       os.Stdout,
		Err:       os.Stderr,
		LookupEnv: os.LookupEnv,
		Runner:    launch.ExecRunner{},
	}
}
