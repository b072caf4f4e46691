// Where: internal/launch/env.go
// What: Docker client environment derivation.
// Why: Turn credentials plus a token into the variables docker understands.
package launch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/meta"
)

// Env holds the derived docker client environment. It owns a temporary
// directory containing the generated config and certificate material;
// callers must Cleanup after the docker process exits.
type Env struct {
	// Host is the DOCKER_HOST value pointing at the Portainer docker proxy.
	Host string
	// ConfigDir is the DOCKER_CONFIG directory carrying the auth header.
	ConfigDir string
	// CertPath is the DOCKER_CERT_PATH directory, empty without TLS material.
	CertPath string
	// TLS mirrors the credentials' tls setting.
	TLS bool
	// TLSVerify is set only when a CA certificate is available.
	TLSVerify bool

	tmpDir string
}

// dockerConfig is the subset of docker's config.json this tool generates.
type dockerConfig struct {
	HTTPHeaders map[string]string `json:"HttpHeaders"`
}

// HostURL builds the DOCKER_HOST value for a credential set. Hosts
// without an explicit port get the HTTPS default.
func HostURL(creds config.Credentials) string {
	host := creds.Host
	if !strings.Contains(host, ":") {
		host += ":" + meta.PortainerPort
	}
	return fmt.Sprintf("tcp://%s/api/endpoints/%s/docker/", host, creds.EndpointID)
}

// Derive materializes the docker client environment for the given
// credentials and token: a temp config dir whose config.json carries the
// Authorization header, and a cert dir when TLS material is configured.
func Derive(creds config.Credentials, token string) (*Env, error) {
	tmpDir, err := os.MkdirTemp("", "portainer-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	env := &Env{
		Host:   HostURL(creds),
		TLS:    creds.UseTLS(),
		tmpDir: tmpDir,
	}

	cleanupOnErr := func(err error) (*Env, error) {
		os.RemoveAll(tmpDir)
		return nil, err
	}

	configDir := filepath.Join(tmpDir, "config")
	if err := os.Mkdir(configDir, 0o700); err != nil {
		return cleanupOnErr(fmt.Errorf("create config dir: %w", err))
	}
	cfg := dockerConfig{HTTPHeaders: map[string]string{}}
	if token != "" {
		cfg.HTTPHeaders["Authorization"] = "Bearer " + token
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return cleanupOnErr(fmt.Errorf("encode docker config: %w", err))
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), payload, 0o600); err != nil {
		return cleanupOnErr(fmt.Errorf("write docker config: %w", err))
	}
	env.ConfigDir = configDir

	if creds.CACertificate != "" || creds.HasClientCert() {
		certDir, err := writeCertDir(tmpDir, creds)
		if err != nil {
			return cleanupOnErr(err)
		}
		env.CertPath = certDir
		env.TLSVerify = creds.CACertificate != ""
	}

	return env, nil
}

// writeCertDir assembles the DOCKER_CERT_PATH directory. Docker expects
// fixed file names: ca.pem, cert.pem, key.pem.
func writeCertDir(tmpDir string, creds config.Credentials) (string, error) {
	certDir := filepath.Join(tmpDir, "certs")
	if err := os.Mkdir(certDir, 0o700); err != nil {
		return "", fmt.Errorf("create cert dir: %w", err)
	}

	if creds.CACertificate != "" {
		caPath := filepath.Join(certDir, "ca.pem")
		if err := os.WriteFile(caPath, []byte(creds.CACertificate), 0o600); err != nil {
			return "", fmt.Errorf("write ca certificate: %w", err)
		}
	}

	if creds.HasClientCert() {
		if err := copyFile(creds.ClientCert, filepath.Join(certDir, "cert.pem")); err != nil {
			return "", fmt.Errorf("copy client certificate: %w", err)
		}
		if err := copyFile(creds.ClientKey, filepath.Join(certDir, "key.pem")); err != nil {
			return "", fmt.Errorf("copy client key: %w", err)
		}
	}

	return certDir, nil
}

func copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0o600)
}

// Environ returns the variables to add to the docker process environment.
func (e *Env) Environ() []string {
	vars := []string{
		"DOCKER_HOST=" + e.Host,
		"DOCKER_CONFIG=" + e.ConfigDir,
	}
	if e.TLS {
		vars = append(vars, "DOCKER_TLS=1")
	}
	if e.TLSVerify {
		vars = append(vars, "DOCKER_TLS_VERIFY=1")
	}
	if e.CertPath != "" {
		vars = append(vars, "DOCKER_CERT_PATH="+e.CertPath)
	}
	return vars
}

// CAPath returns the materialized CA file path, empty when no CA is set.
func (e *Env) CAPath() string {
	if !e.TLSVerify {
		return ""
	}
	return filepath.Join(e.CertPath, "ca.pem")
}

// Cleanup removes the temporary directory backing this environment.
func (e *Env) Cleanup() error {
	if e.tmpDir == "" {
		return nil
	}
	return os.RemoveAll(e.tmpDir)
}
