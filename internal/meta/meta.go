// Where: internal/meta/meta.go
// What: Tool-local metadata constants.
// Why: Keep identity strings in one place.
package meta

const (
	// Project Identity
	AppName   = "portainer-docker"
	EnvPrefix = "PORTAINER"

	// Credentials
	CredentialsFileName   = "portainer-credentials.yaml"
	CredentialsNameEnvVar = "PORTAINER_CREDENTIALS_NAME"
	DefaultCredentialName = "default"
	DefaultEndpointID     = "1"

	// Launch
	DefaultDockerCommand = "docker"
	PortainerPort        = "443"
)
