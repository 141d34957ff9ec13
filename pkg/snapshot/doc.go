// Package snapshot defines the catalog metadata captured from a SQL Server database.
//
// A Snapshot holds five row sets (modules, indexes, constraints, tables and table
// columns) for a fixed list of schemas. Snapshots are produced by the sqlserver
// package and consumed, read-only, by the drift, applyscript and objectdiff packages.
package snapshot
