// Where: internal/portainer/client.go
// What: Minimal Portainer API client.
// Why: Exchange username/password for the JWT the docker proxy expects.
package portainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Portainer instance over HTTPS.
type Client struct {
	// BaseURL is the Portainer root, e.g. "https://portainer.example.com".
	BaseURL string
	// HTTPClient defaults to a client with Portainer-appropriate TLS settings.
	HTTPClient *http.Client
}

// NewClient constructs a client for the given Portainer host. When caPEM
// is non-empty, server certificates are verified against that CA only.
func NewClient(host, caPEM string) (*Client, error) {
	tlsCfg, err := TLSConfig(caPEM)
	if err != nil {
		return nil, fmt.Errorf("configure tls: %w", err)
	}
	return &Client{
		BaseURL: "https://" + host,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		},
	}, nil
}

type authRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

type authResponse struct {
	JWT string `json:"jwt"`
}

// Authenticate retrieves a JWT authorization token from Portainer.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(authRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("authenticate against portainer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", authStatusError(resp)
	}

	var parsed authResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}
	if parsed.JWT == "" {
		return "", fmt.Errorf("portainer auth response contained no jwt")
	}
	return parsed.JWT, nil
}

// authStatusError formats a non-2xx auth response, including the body so
// Portainer's own error message reaches the user.
func authStatusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return fmt.Errorf("error %d from portainer", resp.StatusCode)
	}
	return fmt.Errorf("error %d from portainer: %s", resp.StatusCode, text)
}
