// Where: internal/config/credentials.go
// What: Portainer credentials model and loader.
// Why: Resolve, validate, and decode the credentials file once per invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dockwrap/portainer-docker/internal/meta"
	"gopkg.in/yaml.v3"
)

// Credentials describes one named entry in the credentials file.
// The zero value is not usable; entries are produced by Load.
type Credentials struct {
	Host          string `yaml:"host"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	Token         string `yaml:"token,omitempty"`
	EndpointID    string `yaml:"endpoint_id,omitempty"`
	TLS           *bool  `yaml:"tls,omitempty"`
	CACertificate string `yaml:"ca_certificate,omitempty"`
	ClientCert    string `yaml:"client_cert,omitempty"`
	ClientKey     string `yaml:"client_key,omitempty"`
}

// UseTLS reports whether the docker connection should use TLS.
// Absent from the file means enabled; the Portainer proxy listens on HTTPS.
func (c Credentials) UseTLS() bool {
	return c.TLS == nil || *c.TLS
}

// HasBasicAuth reports whether a username/password pair is configured.
func (c Credentials) HasBasicAuth() bool {
	return c.Username != "" && c.Password != ""
}

// HasClientCert reports whether a TLS client certificate pair is configured.
func (c Credentials) HasClientCert() bool {
	return c.ClientCert != "" && c.ClientKey != ""
}

// LoadOptions controls credentials resolution.
type LoadOptions struct {
	// Path overrides the default search path when non-empty.
	Path string
	// Name selects a credential set; empty falls back to the
	// PORTAINER_CREDENTIALS_NAME environment variable, then "default".
	Name string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves the credentials file, validates it against the embedded
// schema, and returns the selected credential set.
func Load(opts LoadOptions) (Credentials, error) {
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	path, err := resolvePath(opts.Path)
	if err != nil {
		return Credentials{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, wrapConfigError(fmt.Sprintf("read credentials file %q", path), err)
	}

	if _, err := validateCredentialsFile(content); err != nil {
		return Credentials{}, wrapConfigError(fmt.Sprintf("invalid credentials file %q", path), err)
	}

	var all map[string]Credentials
	if err := yaml.Unmarshal(content, &all); err != nil {
		return Credentials{}, wrapConfigError(fmt.Sprintf("parse credentials file %q", path), err)
	}

	name := resolveName(opts.Name, lookupEnv)
	creds, ok := all[name]
	if !ok {
		return Credentials{}, configErrorf("credentials %q not found in %q", name, path)
	}

	if creds.EndpointID == "" {
		creds.EndpointID = meta.DefaultEndpointID
	}

	if err := validateAuth(creds, name); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// validateAuth enforces that at least one authentication mechanism is
// present: username+password, a pre-issued token, or a client cert pair.
func validateAuth(creds Credentials, name string) error {
	if creds.HasBasicAuth() || creds.Token != "" || creds.HasClientCert() {
		return nil
	}
	return configErrorf(
		"credentials %q have no authentication mechanism (need username/password, token, or client_cert/client_key)",
		name,
	)
}

func resolveName(name string, lookupEnv func(string) (string, bool)) string {
	if name != "" {
		return name
	}
	if env, ok := lookupEnv(meta.CredentialsNameEnvVar); ok && env != "" {
		return env
	}
	return meta.DefaultCredentialName
}

// resolvePath returns the credentials file to load. An explicit path
// replaces the search path entirely, matching the CLI contract.
func resolvePath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", wrapConfigError(fmt.Sprintf("credentials file %q", explicit), err)
		}
		return explicit, nil
	}

	candidates := searchPaths()
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", configErrorf(
		"could not find credentials file, tried:\n  - %s",
		strings.Join(candidates, "\n  - "),
	)
}

// searchPaths lists candidate credential file locations in priority order:
// current directory, home directory, then /etc.
func searchPaths() []string {
	paths := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, meta.CredentialsFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+meta.CredentialsFileName))
	}
	paths = append(paths, filepath.Join("/etc", meta.CredentialsFileName))
	return paths
}
