// Package objectdiff compares a single programmable object across two snapshots.
//
// Names resolve as schema.name or a bare name (first match wins). When both
// sides have the object and their definitions differ, Result.Unified holds a
// unified diff of the raw definitions labelled <snapshot>:<schema>.<name>.<type>.
// When only one side has it, WriteTo prints both bodies under Left and Right.
package objectdiff
