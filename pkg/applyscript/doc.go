// Package applyscript turns a drift summary into an advisory T-SQL script.
//
// The script is meant to be reviewed and run by a human against the target
// database. It is never executed by sqlsrv.
//
// # Sections
//
// Render emits three sections in a fixed order:
//
//  1. Tables: TODO comments describing which parts of a changed table differ,
//     ALTER TABLE ... ADD for columns missing from the target, CREATE TABLE for
//     tables that only exist in source and an advisory note for tables that only
//     exist in target.
//  2. Drops (opt-in): DROP ... IF EXISTS for procedures, functions and views that
//     only exist in target. Triggers are left for manual action.
//  3. Modules: CREATE OR ALTER for every changed or source-only module.
//
// Column and type changes on existing tables are never scripted; only additive
// changes are.
//
// # Writing
//
// FileWriter stores the script on disk (or stdout for "-"), creating parent
// directories as needed:
//
//	path, err := applyscript.NewFileWriter("").Write(script)
//	// path == "db-apply-diff-20250314-093000.sql"
package applyscript
