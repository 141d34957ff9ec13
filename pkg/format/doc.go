// Package format renders drift summaries for the terminal, Markdown or machine consumption.
//
// Four styles are supported:
//
//   - table: a counts table per category followed by one row per drifted object
//   - compact: a short text section per category (object lists with Pretty)
//   - markdown: the compact sections as Markdown, for pasting into reviews
//   - json: {"modules":{...},"indexes":{...},"constraints":{...},"tables":{...}}
//
// Usage:
//
//	// Object-oriented API
//	formatter := format.New(format.FormatterOptions{
//		Style:  format.StyleCompact,
//		Source: "staging",
//		Target: "prod",
//	})
//	err := formatter.Summary(os.Stdout, summary)
//
//	// Functional API
//	err := format.Summary(os.Stdout, format.Defaults, summary)
//
// Summaries are expected with target on the left and source on the right, which is
// how compare produces them. Labels such as "Only in source" depend on it.
package format
