// Where: internal/app/tokens.go
// What: Default Portainer token source.
// Why: Keep the HTTP exchange behind the TokenSource seam used in tests.
package app

import (
	"context"
	"fmt"

	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/portainer"
)

type portainerTokenSource struct{}

func (portainerTokenSource) Token(ctx context.Context, creds config.Credentials) (string, error) {
	client, err := portainer.NewClient(creds.Host, creds.CACertificate)
	if err != nil {
		return "", fmt.Errorf("create portainer client: %w", err)
	}
	return client.Authenticate(ctx, creds.Username, creds.Password)
}
