package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pseudomuto/sqlsrv/pkg/drift"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
)

const (
	statusChanged    = "Changed"
	statusOnlySource = "Only in source"
	statusOnlyTarget = "Only in target"
)

// DriftRow is a single drifted object as shown in the table layout.
type DriftRow struct {
	Object string
	Kind   string
	Status string
}

// DriftRows flattens a summary into one row per drifted object: modules, tables,
// indexes then constraints. Index and constraint rows are reported against
// their table.
func DriftRows(s drift.Summary) []DriftRow {
	var rows []DriftRow

	each := func(d drift.DiffSet, fn func(key, status string)) {
		for _, k := range d.Changed {
			fn(k, statusChanged)
		}
		for _, k := range d.MissingInLeft {
			fn(k, statusOnlySource)
		}
		for _, k := range d.MissingInRight {
			fn(k, statusOnlyTarget)
		}
	}

	each(s.Modules, func(key, status string) {
		if schema, typ, name, ok := snapshot.ParseModuleKey(key); ok {
			rows = append(rows, DriftRow{Object: schema + "." + name, Kind: typ.Keyword(), Status: status})
		}
	})

	each(s.Tables, func(key, status string) {
		rows = append(rows, DriftRow{Object: key, Kind: "Table", Status: status})
	})

	each(s.Indexes, func(key, status string) {
		rows = append(rows, DriftRow{Object: drift.ObjectOf(key), Kind: "Index", Status: status})
	})

	each(s.Constraints, func(key, status string) {
		// schema.table.TYPE::definition
		obj := drift.ObjectOf(key)
		i := strings.LastIndex(obj, ".")
		if i < 0 {
			return
		}
		rows = append(rows, DriftRow{Object: obj[:i], Kind: obj[i+1:], Status: status})
	})

	return rows
}

func (f *Formatter) table(w io.Writer, s drift.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	fmt.Fprintln(tw, "Type\tChanged\tOnly in source\tOnly in target")
	fmt.Fprintln(tw, "----\t-------\t--------------\t--------------")
	for _, c := range []drift.Category{
		{Title: "Modules", Set: s.Modules},
		{Title: "Tables", Set: s.Tables},
		{Title: "Indexes", Set: s.Indexes},
		{Title: "Constraints", Set: s.Constraints},
	} {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", c.Title, len(c.Set.Changed), len(c.Set.MissingInLeft), len(c.Set.MissingInRight))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	rows := DriftRows(s)
	if len(rows) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "Object\tKind\tStatus")
	fmt.Fprintln(tw, "------\t----\t------")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Object, r.Kind, r.Status)
	}
	return tw.Flush()
}
