package cmd

import (
	"context"

	"github.com/pseudomuto/sqlsrv/pkg/compare"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type compareParams struct {
	fx.In

	Runner *compare.Runner
}

// compareCmd creates the compare command.
//
// Example usage:
//
//	# Summarize drift between the default profile and prod
//	sqlsrv compare --target prod
//
//	# Ignore formatting noise and print a Markdown report
//	sqlsrv compare -s staging -t prod --ignore-whitespace --strip-comments --compact --markdown
//
//	# Diff a single procedure
//	sqlsrv compare -s staging -t prod --object dbo.GetUser --context 3
//
//	# Write an apply script to stdout, including DROPs for target-only objects
//	sqlsrv compare -s staging -t prod --apply-script --apply-path - --include-drops
func compareCmd(p compareParams) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare the schema of two databases",
		Description: `Capture the catalog of a source and a target database and report drift.

By default a summary table is printed and the command exits with status 3 when
any drift is found. With --object a single module is diffed instead (exit 3 if
it differs, 4 if it exists on neither side). With --apply-script a T-SQL script
that moves the target towards the source is written; it's advisory and is never
executed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "source profile (defaults to --profile or the config default)",
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:     "target",
				Aliases:  []string{"t"},
				Usage:    "target profile",
				Required: true,
				Config:   cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:  "source-connection",
				Usage: "connection string replacing the source profile's connection",
			},
			&cli.StringFlag{
				Name:  "target-connection",
				Usage: "connection string replacing the target profile's connection",
			},
			&cli.StringFlag{
				Name:  "schemas",
				Usage: "comma separated schemas to compare",
			},
			&cli.BoolFlag{
				Name:  "ignore-whitespace",
				Usage: "collapse whitespace before comparing definitions",
			},
			&cli.BoolFlag{
				Name:  "strip-comments",
				Usage: "remove SQL comments before comparing definitions",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "print one short section per category",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "list affected objects in compact output and indent JSON",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the summary as JSON",
			},
			&cli.BoolFlag{
				Name:  "markdown",
				Usage: "print the summary as Markdown",
			},
			&cli.BoolFlag{
				Name:  "snapshots",
				Usage: "print both captured snapshots as JSON instead of a summary",
			},
			&cli.BoolFlag{
				Name:  "apply-script",
				Usage: "generate a script that moves the target towards the source",
			},
			&cli.StringFlag{
				Name:  "apply-path",
				Usage: "where to write the apply script (- for stdout)",
			},
			&cli.BoolFlag{
				Name:  "include-drops",
				Usage: "drop procedures, views and functions that only exist in the target",
			},
			&cli.StringFlag{
				Name:   "object",
				Usage:  "diff a single module (schema.name or name)",
				Config: cli.StringConfig{TrimSpace: true},
			},
			&cli.IntFlag{
				Name:  "context",
				Usage: "lines of context around each hunk in --object diffs",
				Value: consts.DefaultContextRadius,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code, err := p.Runner.Run(ctx, compareOptions(cmd))
			if err != nil {
				return err
			}
			return withExitCode(code)
		},
	}
}

func compareOptions(cmd *cli.Command) compare.Options {
	return compare.Options{
		ConfigPath:       cmd.String("config"),
		Profile:          cmd.String("profile"),
		Source:           cmd.String("source"),
		Target:           cmd.String("target"),
		SourceConnection: cmd.String("source-connection"),
		TargetConnection: cmd.String("target-connection"),
		Schemas:          cmd.String("schemas"),
		IgnoreWhitespace: cmd.Bool("ignore-whitespace"),
		StripComments:    cmd.Bool("strip-comments"),
		Compact:          cmd.Bool("compact"),
		Pretty:           cmd.Bool("pretty"),
		JSON:             cmd.Bool("json"),
		Markdown:         cmd.Bool("markdown"),
		Snapshots:        cmd.Bool("snapshots"),
		ApplyScript:      cmd.Bool("apply-script"),
		ApplyPath:        cmd.String("apply-path"),
		IncludeDrops:     cmd.Bool("include-drops"),
		Object:           cmd.String("object"),
		Context:          int(cmd.Int("context")),
	}
}
