// Where: cmd/portainer-docker/main.go
// What: CLI entrypoint.
// Why: Execute the wrapper with production dependencies.
package main

import (
	"os"

	"github.com/dockwrap/portainer-docker/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], buildDependencies()))
}
