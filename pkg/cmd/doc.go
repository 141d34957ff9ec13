// Package cmd provides CLI commands for the sqlsrv tool.
//
// # Available Commands
//
//   - compare: Capture two databases' catalogs and report drift, diff a single
//     object or generate an apply script
//   - config: Show the connection settings a profile resolves to
//
// # Command Structure
//
// Each command is implemented as a function that returns a *cli.Command,
// following the urfave/cli/v3 pattern. Commands are provided to the fx
// application in the "commands" value group and mounted by Run.
//
// # Global Options
//
// All commands support global flags:
//   - --config, -c: Config file to load instead of searching for one
//   - --profile, -p: Connection profile (the source profile for compare)
//   - --verbose: Log debug output to stderr
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Exit Codes
//
// Commands report more than success or failure: compare exits with 3 when drift
// is found and 4 when a requested object doesn't exist. Any error exits with 1
// after being logged.
package cmd
