package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}

	// exitCodeError carries a non-zero exit code that isn't a failure, e.g. drift
	// was found. It's never logged.
	exitCodeError struct {
		code int
	}
)

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// withExitCode turns a command result code into the error returned from an action.
func withExitCode(code int) error {
	if code == consts.ExitOK {
		return nil
	}
	return exitCodeError{code: code}
}

// Run creates and executes the sqlsrv CLI application with the given version and
// command-line arguments.
//
// Global Flags:
//   - --config, -c: Config file (defaults to the search path described in pkg/config)
//   - --profile, -p: Connection profile
//   - --verbose: Enable debug logging on stderr
//
// Example usage:
//
//	sqlsrv --profile staging compare --target prod --compact
//	sqlsrv -c ./sqlsrv.yaml compare -s staging -t prod --apply-script --apply-path -
//
// The fx application is shut down with the command's exit code: 0 on success,
// 3 when drift was found, 4 when an object wasn't found and 1 on failure.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := newApp(p.Version.Version, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		_ = p.Shutdowner.Shutdown(fx.ExitCode(execute(p.Ctx, app, p.Args)))
	}))
}

func newApp(version string, commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:  "sqlsrv",
		Usage: "A tool for inspecting SQL Server schema drift",
		Description: `sqlsrv compares the catalog of two SQL Server databases (procedures, views,
functions, triggers, indexes, constraints and tables) and reports what differs.
It can also generate a best-effort script to bring the target in line with the
source.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the sqlsrv config file",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "the connection profile to use",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return ctx, nil
		},
		Commands: commands,
	}
}

// execute runs app and maps its outcome onto a process exit code.
func execute(ctx context.Context, app *cli.Command, args []string) int {
	err := app.Run(ctx, args)
	if err == nil {
		return consts.ExitOK
	}

	var exitErr exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	slog.Error("Error running command", "err", err)
	return consts.ExitFailure
}
