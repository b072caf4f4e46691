// Where: internal/dockerapi/client.go
// What: Docker SDK client constructor for the Portainer proxy.
// Why: Centralize SDK initialization with the derived host, TLS, and header.
package dockerapi

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/docker/docker/client"
	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/launch"
	"github.com/dockwrap/portainer-docker/internal/portainer"
)

// NewClient constructs a Docker SDK client pointed at the Portainer
// docker proxy, authenticating every request with the given token.
func NewClient(creds config.Credentials, token string) (*client.Client, error) {
	opts := []client.Opt{
		client.WithHost(launch.HostURL(creds)),
		client.WithAPIVersionNegotiation(),
	}
	if token != "" {
		opts = append(opts, client.WithHTTPHeaders(map[string]string{
			"Authorization": "Bearer " + token,
		}))
	}

	if creds.UseTLS() {
		tlsCfg, err := probeTLSConfig(creds)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithHTTPClient(&http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}))
	}

	apiClient, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return apiClient, nil
}

func probeTLSConfig(creds config.Credentials) (*tls.Config, error) {
	tlsCfg, err := portainer.TLSConfig(creds.CACertificate)
	if err != nil {
		return nil, fmt.Errorf("configure tls: %w", err)
	}
	if creds.HasClientCert() {
		pair, err := tls.LoadX509KeyPair(creds.ClientCert, creds.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{pair}
	}
	return tlsCfg, nil
}
