// Package sqlserver reads catalog metadata from SQL Server into snapshots.
//
// A snapshot is built from five read-only queries against the sys.* catalog views,
// each restricted to a set of schemas:
//
//   - programmable modules (procedures, views, functions, triggers) with definitions
//   - named, non-hypothetical indexes with key and include columns
//   - FK, PK, UNIQUE, CHECK and DEFAULT constraints
//   - a coarse per-table signature (columns, non-constraint indexes, checks)
//   - every column of every user table
//
// The queries run sequentially on one connection which is closed once the snapshot
// is assembled.
//
// # Usage Example
//
//	conn, err := cfg.Resolve("staging", os.LookupEnv)
//	if err != nil {
//		return err
//	}
//
//	snap, err := sqlserver.NewFetcher().Fetch(ctx, "staging", conn, []string{"dbo", "web"})
//	if err != nil {
//		return err
//	}
//
//	for _, m := range snap.Modules {
//		fmt.Println(m.Key())
//	}
//
// Connection failures are reported with the apperr.Connection kind and catalog query
// failures with apperr.Query.
package sqlserver
