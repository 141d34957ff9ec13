// Package compare orchestrates a schema drift comparison between two SQL Server
// databases.
//
// A run resolves a source and a target connection from configuration profiles
// (optionally replaced by raw connection strings), captures a catalog snapshot of
// each side concurrently, and then does exactly one of the following:
//
//   - diff a single programmable object (Options.Object)
//   - write an apply script that moves the target towards the source (Options.ApplyScript)
//   - dump both snapshots as JSON (Options.Snapshots)
//   - print a drift summary in the selected style
//
// Run returns the process exit code alongside any error: consts.ExitOK when there is
// no drift, consts.ExitDrift when drift was found or the object differs, and
// consts.ExitNotFound when the requested object exists on neither side.
//
// # Usage Example
//
//	runner := compare.NewRunner(config.NewLoader(), sqlserver.NewFetcher())
//	code, err := runner.Run(ctx, compare.Options{
//		Source:           "staging",
//		Target:           "prod",
//		IgnoreWhitespace: true,
//		StripComments:    true,
//		Compact:          true,
//	})
//
// Snapshots are diffed with the target on the left and the source on the right, so
// objects that only exist in the source are reported as missing in the target and
// become CREATE statements in the apply script.
package compare
