package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pseudomuto/sqlsrv/pkg/drift"
)

// compact writes one section per category:
//
//	=== Modules ===
//	changed: 1
//	  dbo.View.ActiveUsers
//	missing in prod: 0
//	missing in staging: 0
//
// Object lists are only printed when Pretty is set.
func (f *Formatter) compact(w io.Writer, s drift.Summary) error {
	var b strings.Builder
	for _, c := range s.Categories() {
		fmt.Fprintf(&b, "=== %s ===\n", c.Title)
		for _, p := range f.partitions(c.Set) {
			fmt.Fprintf(&b, "%s: %d\n", p.label, len(p.keys))
			if f.options.Pretty && len(p.keys) > 0 {
				fmt.Fprintf(&b, "  %s\n", strings.Join(p.keys, ", "))
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *Formatter) markdown(w io.Writer, s drift.Summary) error {
	sections := []string{fmt.Sprintf("## Drift Summary: %s vs %s", f.options.Source, f.options.Target)}

	for _, c := range s.Categories() {
		lines := []string{"### " + c.Title}
		for _, p := range f.partitions(c.Set) {
			lines = append(lines, fmt.Sprintf("- %s: %d", p.label, len(p.keys)))
			if len(p.keys) > 0 {
				lines = append(lines, "  - `"+strings.Join(p.keys, "`, `")+"`")
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}
