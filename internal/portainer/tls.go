// Where: internal/portainer/tls.go
// What: TLS configuration for Portainer-facing connections.
// Why: Share CA-pinning behavior between the auth client and the API probe.
package portainer

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/docker/go-connections/tlsconfig"
)

// TLSConfig builds a client TLS configuration. A non-empty caPEM pins
// verification to that CA; an empty one disables verification, matching
// the credentials-file contract.
func TLSConfig(caPEM string) (*tls.Config, error) {
	cfg := tlsconfig.ClientDefault()
	if caPEM == "" {
		cfg.InsecureSkipVerify = true
		return cfg, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(caPEM)) {
		return nil, fmt.Errorf("ca_certificate contains no valid PEM certificates")
	}
	cfg.RootCAs = pool
	return cfg, nil
}
