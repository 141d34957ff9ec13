package format

import (
	"io"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/drift"
)

// Style selects the layout used to present a drift summary.
type Style string

const (
	// StyleTable prints a counts table followed by one row per drifted object.
	StyleTable Style = "table"
	// StyleCompact prints one short section per category.
	StyleCompact Style = "compact"
	// StyleMarkdown prints the compact sections as Markdown, suitable for PR comments.
	StyleMarkdown Style = "markdown"
	// StyleJSON prints the summary as a JSON document.
	StyleJSON Style = "json"
)

// ErrUnknownStyle is returned when FormatterOptions.Style isn't one of the known styles.
var ErrUnknownStyle = errors.New("unknown output style")

type (
	// FormatterOptions controls formatting behavior
	FormatterOptions struct {
		// Style selects the layout. Empty means StyleTable.
		Style Style
		// Pretty indents JSON output and lists the affected objects under each compact section.
		Pretty bool
		// Source and Target name the compared snapshots in labels.
		Source string
		Target string
	}

	// Formatter writes drift summaries in the configured style.
	//
	// Summaries are expected in the orientation produced by compare: target on the
	// left and source on the right, so MissingInLeft lists objects that only exist
	// in source.
	Formatter struct {
		options FormatterOptions
	}
)

// Defaults are the options used when none are given.
var Defaults = FormatterOptions{Style: StyleTable, Source: "source", Target: "target"}

// New creates a new Formatter with the specified options
func New(options FormatterOptions) *Formatter {
	if options.Style == "" {
		options.Style = StyleTable
	}
	if options.Source == "" {
		options.Source = Defaults.Source
	}
	if options.Target == "" {
		options.Target = Defaults.Target
	}
	return &Formatter{options: options}
}

// Summary writes s to w using opts.
func Summary(w io.Writer, opts FormatterOptions, s drift.Summary) error {
	return New(opts).Summary(w, s)
}

// Summary writes s to w in the formatter's style.
func (f *Formatter) Summary(w io.Writer, s drift.Summary) error {
	var err error
	switch f.options.Style {
	case StyleTable:
		err = f.table(w, s)
	case StyleCompact:
		err = f.compact(w, s)
	case StyleMarkdown:
		err = f.markdown(w, s)
	case StyleJSON:
		err = f.json(w, s)
	default:
		return errors.Wrapf(ErrUnknownStyle, "%q", f.options.Style)
	}

	return errors.Wrap(err, "failed to write summary")
}

// partition pairs a label with one of a DiffSet's lists, in display order.
type partition struct {
	label string
	keys  []string
}

func (f *Formatter) partitions(d drift.DiffSet) []partition {
	return []partition{
		{label: "changed", keys: d.Changed},
		{label: "missing in " + f.options.Target, keys: d.MissingInLeft},
		{label: "missing in " + f.options.Source, keys: d.MissingInRight},
	}
}
