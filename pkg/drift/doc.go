// Package drift detects schema drift between two snapshots.
//
// Detection happens in three steps:
//
//  1. Normalize canonicalizes SQL text (line endings, comments, whitespace).
//  2. ModuleMap, IndexMap, ConstraintMap and TableMap turn a snapshot's rows into
//     key to signature maps, one per category.
//  3. Diff partitions the keys of two maps into Changed, MissingInRight and
//     MissingInLeft. Summarize does this for all four categories at once.
//
// Index and constraint keys embed their full signature, so a modified index is
// reported as one key missing on each side rather than as Changed. Tables are
// compared by a coarse signature; column level detail is left to the applyscript
// package.
//
// Example:
//
//	summary := drift.Summarize(target, source, drift.Options{
//		IgnoreWhitespace: true,
//		StripComments:    true,
//	})
//
//	if summary.HasDrift() {
//		for _, key := range summary.Modules.MissingInLeft {
//			fmt.Println("only in source:", key)
//		}
//	}
package drift
