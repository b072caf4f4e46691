// Where: internal/app/app_test.go
// What: End-to-end tests for Run.
// Why: Pin the CLI surface: separator routing, exit codes, env derivation.
package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/dockerapi"
	"github.com/dockwrap/portainer-docker/internal/launch"
)

type fakeRunner struct {
	calls int
	name  string
	args  []string
	env   []string
	code  int
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, extraEnv []string) (int, error) {
	f.calls++
	f.name = name
	f.args = args
	f.env = extraEnv
	return f.code, f.err
}

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) Token(context.Context, config.Credentials) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakePinger struct {
	ping types.Ping
	err  error
}

func (f fakePinger) Ping(context.Context) (types.Ping, error) {
	return f.ping, f.err
}

func noEnv(string) (string, bool) { return "", false }

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portainer-credentials.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	return path
}

const tokenCredentials = `
default:
  host: portainer.example.com
  token: jwt-abc
  tls: false
`

func TestRunHelpDoesNotInvokeDocker(t *testing.T) {
	var buf bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"--help"}, Dependencies{
		Out:       &buf,
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if runner.calls != 0 {
		t.Error("docker must not be invoked for --help")
	}
	if !strings.Contains(buf.String(), "portainer-docker") {
		t.Errorf("usage output missing tool name: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "--credentials") {
		t.Errorf("usage output missing flags: %s", buf.String())
	}
}

func TestRunForwardsDockerArgsVerbatim(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	var buf bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"-c", path, "--", "ps", "--format", "{{.Names}}"}, Dependencies{
		Out:       &buf,
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != 0 {
		t.Fatalf("exit code = %d, output: %s", code, buf.String())
	}
	if runner.calls != 1 {
		t.Fatalf("runner calls = %d", runner.calls)
	}
	if runner.name != "docker" {
		t.Errorf("command = %q", runner.name)
	}
	want := []string{"ps", "--format", "{{.Names}}"}
	if !reflect.DeepEqual(runner.args, want) {
		t.Errorf("docker args = %#v, want %#v", runner.args, want)
	}

	var host string
	for _, v := range runner.env {
		if after, ok := strings.CutPrefix(v, "DOCKER_HOST="); ok {
			host = after
		}
	}
	if host != "tcp://portainer.example.com:443/api/endpoints/1/docker/" {
		t.Errorf("DOCKER_HOST = %q", host)
	}
}

func TestRunNoSeparatorInvokesDockerWithoutArgs(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	var buf bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"-c", path}, Dependencies{
		Out:       &buf,
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != 0 {
		t.Fatalf("exit code = %d, output: %s", code, buf.String())
	}
	if runner.calls != 1 {
		t.Fatalf("runner calls = %d", runner.calls)
	}
	if len(runner.args) != 0 {
		t.Errorf("docker args = %#v, want none", runner.args)
	}
}

func TestRunPropagatesDockerExitCode(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	runner := &fakeRunner{code: 42}

	code := Run([]string{"-c", path, "--", "ps"}, Dependencies{
		Out:       &bytes.Buffer{},
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}
}

func TestRunConfigurationErrorExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}, Dependencies{
		Out:       &out,
		Err:       &errOut,
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != exitConfig {
		t.Errorf("exit code = %d, want %d", code, exitConfig)
	}
	if runner.calls != 0 {
		t.Error("docker must not be invoked on configuration failure")
	}
	if !strings.Contains(errOut.String(), "✗") {
		t.Errorf("missing error marker on stderr: %s", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("stdout must stay clean on failure: %s", out.String())
	}
}

func TestRunLaunchErrorExitCode(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	runner := &fakeRunner{
		err: &launch.LaunchError{Command: "docker", Err: errors.New("not found")},
	}

	code := Run([]string{"-c", path}, Dependencies{
		Out:       &bytes.Buffer{},
		Err:       &bytes.Buffer{},
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code != exitLaunch {
		t.Errorf("exit code = %d, want %d", code, exitLaunch)
	}
}

func TestRunFetchesTokenForBasicAuth(t *testing.T) {
	path := writeCredentials(t, `
default:
  host: portainer.example.com
  username: admin
  password: hunter2
  tls: false
`)
	runner := &fakeRunner{}
	tokens := &fakeTokens{token: "fetched-jwt"}

	code := Run([]string{"-c", path, "--", "version"}, Dependencies{
		Out:       &bytes.Buffer{},
		LookupEnv: noEnv,
		Tokens:    tokens,
		Runner:    runner,
	})

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if tokens.calls != 1 {
		t.Errorf("token fetch calls = %d, want 1", tokens.calls)
	}
}

func TestRunSkipsTokenFetchForPreIssuedToken(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	tokens := &fakeTokens{err: errors.New("should not be called")}

	code := Run([]string{"-c", path}, Dependencies{
		Out:       &bytes.Buffer{},
		LookupEnv: noEnv,
		Tokens:    tokens,
		Runner:    &fakeRunner{},
	})

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if tokens.calls != 0 {
		t.Errorf("token fetch calls = %d, want 0", tokens.calls)
	}
}

func TestRunTokenFetchFailureIsFatal(t *testing.T) {
	path := writeCredentials(t, `
default:
  host: portainer.example.com
  username: admin
  password: wrong
`)
	runner := &fakeRunner{}
	tokens := &fakeTokens{err: errors.New("error 422 from portainer")}

	code := Run([]string{"-c", path}, Dependencies{
		Out:       &bytes.Buffer{},
		Err:       &bytes.Buffer{},
		LookupEnv: noEnv,
		Tokens:    tokens,
		Runner:    runner,
	})

	if code == 0 {
		t.Error("expected non-zero exit code")
	}
	if runner.calls != 0 {
		t.Error("docker must not be invoked after auth failure")
	}
}

func TestRunCheckProbesWithoutLaunchingDocker(t *testing.T) {
	path := writeCredentials(t, tokenCredentials)
	var buf bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"-c", path, "--check"}, Dependencies{
		Out:       &buf,
		LookupEnv: noEnv,
		Runner:    runner,
		NewPinger: func(config.Credentials, string) (dockerapi.Pinger, error) {
			return fakePinger{ping: types.Ping{APIVersion: "1.45"}}, nil
		},
	})

	if code != 0 {
		t.Fatalf("exit code = %d, output: %s", code, buf.String())
	}
	if runner.calls != 0 {
		t.Error("docker must not be invoked for --check")
	}
	if !strings.Contains(buf.String(), "1.45") {
		t.Errorf("missing API version: %s", buf.String())
	}
}

func TestRunWarnsWhenTLSWithoutCA(t *testing.T) {
	path := writeCredentials(t, `
default:
  host: portainer.example.com
  token: jwt-abc
`)
	var out, errOut bytes.Buffer

	code := Run([]string{"-c", path}, Dependencies{
		Out:       &out,
		Err:       &errOut,
		LookupEnv: noEnv,
		Runner:    &fakeRunner{},
	})

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut.String(), "TLS verification is disabled") {
		t.Errorf("missing warning on stderr: %s", errOut.String())
	}
	// Warnings must not pollute the stream a pipeline consumes.
	if out.Len() != 0 {
		t.Errorf("stdout must stay clean: %s", out.String())
	}
}

func TestRunUnknownFlagFails(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := &fakeRunner{}

	code := Run([]string{"--definitely-unknown"}, Dependencies{
		Out:       &out,
		Err:       &errOut,
		LookupEnv: noEnv,
		Runner:    runner,
	})

	if code == 0 {
		t.Error("expected non-zero exit code for unknown flag")
	}
	if runner.calls != 0 {
		t.Error("docker must not be invoked on parse failure")
	}
	if errOut.Len() == 0 {
		t.Error("parse error should be reported on stderr")
	}
}
