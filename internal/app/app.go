// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable wrapper around credential loading and docker launch.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dockwrap/portainer-docker/internal/config"
	"github.com/dockwrap/portainer-docker/internal/dockerapi"
	"github.com/dockwrap/portainer-docker/internal/launch"
	"github.com/dockwrap/portainer-docker/internal/meta"
	"github.com/dockwrap/portainer-docker/internal/ui"
	"github.com/dockwrap/portainer-docker/internal/version"
	"github.com/joho/godotenv"
)

// CLI defines the wrapper's own flags, parsed by Kong. Everything after
// the first "--" never reaches this struct; it goes to docker verbatim.
type CLI struct {
	Credentials     string           `short:"c" help:"Path to Portainer credentials file"`
	CredentialsName string           `short:"n" help:"Named credential set to use (default: PORTAINER_CREDENTIALS_NAME, then \"default\")"`
	DockerCmd       string           `name:"docker-cmd" default:"docker" help:"Command used to run docker"`
	EnvFile         string           `name:"env-file" help:"Path to .env file"`
	Check           bool             `help:"Verify connectivity to the Portainer endpoint and exit"`
	Version         kong.VersionFlag `help:"Show version information"`
}

// TokenSource exchanges username/password credentials for a Portainer JWT.
type TokenSource interface {
	Token(ctx context.Context, creds config.Credentials) (string, error)
}

// PingerFactory builds a docker API pinger for the --check probe.
type PingerFactory func(creds config.Credentials, token string) (dockerapi.Pinger, error)

// Dependencies holds all injected dependencies required for CLI execution.
// This structure enables swapping the token fetcher, process runner, and
// connectivity probe in tests.
type Dependencies struct {
	// Out receives regular output: usage, version, probe results.
	Out io.Writer
	// Err receives errors and warnings, keeping docker's stdout clean.
	Err       io.Writer
	LookupEnv func(string) (string, bool)
	Tokens    TokenSource
	Runner    launch.CommandRunner
	NewPinger PingerFactory
}

// Run is the main entry point for CLI execution. It splits the argument
// vector at the "--" separator, parses wrapper flags, loads credentials,
// derives the docker environment, and launches the docker client.
// Returns docker's exit code on a successful launch, or a distinguished
// non-zero code on wrapper failure.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := deps.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	wrapperArgs, dockerArgs := SplitArgs(args)

	cli := CLI{}
	exited := false
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Authenticate a local docker client against a Portainer-proxied docker socket."),
		kong.Writers(out, errOut),
		kong.Exit(func(int) { exited = true }),
		kong.Vars{"version": version.GetVersion()},
	)
	if err != nil {
		return exitWithError(errOut, err)
	}

	if _, err := parser.Parse(wrapperArgs); err != nil {
		if exited {
			return exitOK
		}
		return exitWithError(errOut, err)
	}
	if exited {
		// --help or --version already printed their output.
		return exitOK
	}

	loadEnvFile(cli, errOut)

	creds, err := config.Load(config.LoadOptions{
		Path:      cli.Credentials,
		Name:      cli.CredentialsName,
		LookupEnv: deps.LookupEnv,
	})
	if err != nil {
		return exitWithError(errOut, err)
	}

	ctx := context.Background()

	token := creds.Token
	if token == "" && creds.HasBasicAuth() {
		tokens := deps.Tokens
		if tokens == nil {
			tokens = portainerTokenSource{}
		}
		token, err = tokens.Token(ctx, creds)
		if err != nil {
			return exitWithError(errOut, err)
		}
	}

	if cli.Check {
		return runCheck(ctx, creds, token, deps, out, errOut)
	}

	env, err := launch.Derive(creds, token)
	if err != nil {
		return exitWithError(errOut, err)
	}
	defer env.Cleanup()

	if creds.UseTLS() && creds.CACertificate == "" {
		ui.New(errOut).Warn("No CA root certificate supplied. TLS verification is disabled.")
	}

	runner := deps.Runner
	if runner == nil {
		runner = launch.ExecRunner{}
	}
	code, err := runner.Run(ctx, cli.DockerCmd, dockerArgs, env.Environ())
	if err != nil {
		return exitWithError(errOut, err)
	}
	return code
}

// loadEnvFile loads an explicit env file, or .env from the current
// directory when present, before credential-name resolution.
func loadEnvFile(cli CLI, errOut io.Writer) {
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(errOut, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(errOut, "Warning: failed to load .env: %v\n", err)
		}
	}
}

func runCheck(ctx context.Context, creds config.Credentials, token string, deps Dependencies, out, errOut io.Writer) int {
	newPinger := deps.NewPinger
	if newPinger == nil {
		newPinger = func(creds config.Credentials, token string) (dockerapi.Pinger, error) {
			return dockerapi.NewClient(creds, token)
		}
	}
	pinger, err := newPinger(creds, token)
	if err != nil {
		return exitWithError(errOut, err)
	}
	if err := dockerapi.Check(ctx, pinger, out); err != nil {
		return exitWithError(errOut, err)
	}
	return exitOK
}
