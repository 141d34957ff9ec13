package main

import (
	"context"
	"os"

	"github.com/pseudomuto/sqlsrv/pkg/cmd"
	"github.com/pseudomuto/sqlsrv/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx := context.Background()

	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		config.Module,
		cmd.Module,
	)

	if err := app.Start(ctx); err != nil {
		os.Exit(1)
	}

	sig := <-app.Wait()
	_ = app.Stop(ctx)
	os.Exit(sig.ExitCode)
}
