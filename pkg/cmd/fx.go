package cmd

import (
	"github.com/pseudomuto/sqlsrv/pkg/compare"
	"github.com/pseudomuto/sqlsrv/pkg/sqlserver"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(sqlserver.NewFetcher, fx.As(new(sqlserver.Fetcher))),
		compare.NewRunner,
		fx.Annotate(compareCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(configCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
