package format_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/drift"
	. "github.com/pseudomuto/sqlsrv/pkg/format"
	"github.com/stretchr/testify/require"
)

func sampleSummary() drift.Summary {
	return drift.Summary{
		Modules: drift.DiffSet{
			Changed:        []string{"dbo.View.ActiveUsers"},
			MissingInLeft:  []string{"dbo.Procedure.GetTotal"},
			MissingInRight: []string{"dbo.Trigger.trgAudit"},
		},
		Indexes: drift.DiffSet{
			MissingInLeft: []string{`dbo.Users::{"type":"NONCLUSTERED"}`},
		},
		Constraints: drift.DiffSet{
			MissingInRight: []string{"dbo.Orders.CHECK::([Total]>(0))"},
		},
		Tables: drift.DiffSet{
			Changed: []string{"dbo.Users"},
		},
	}
}

func render(t *testing.T, opts FormatterOptions, s drift.Summary) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, opts, s))
	return buf.String()
}

func TestSummary_Compact(t *testing.T) {
	s := drift.Summary{Modules: drift.DiffSet{
		Changed:       []string{"dbo.View.A"},
		MissingInLeft: []string{"dbo.Procedure.B", "dbo.Procedure.C"},
	}}
	opts := FormatterOptions{Style: StyleCompact, Source: "staging", Target: "prod"}

	expected := strings.Join([]string{
		"=== Modules ===",
		"changed: 1",
		"missing in prod: 2",
		"missing in staging: 0",
		"",
		"=== Indexes ===",
		"changed: 0",
		"missing in prod: 0",
		"missing in staging: 0",
		"",
		"=== Constraints ===",
		"changed: 0",
		"missing in prod: 0",
		"missing in staging: 0",
		"",
		"=== Tables ===",
		"changed: 0",
		"missing in prod: 0",
		"missing in staging: 0",
		"",
		"",
	}, "\n")
	require.Equal(t, expected, render(t, opts, s))

	opts.Pretty = true
	out := render(t, opts, s)
	require.Contains(t, out, "changed: 1\n  dbo.View.A\nmissing in prod: 2\n  dbo.Procedure.B, dbo.Procedure.C\nmissing in staging: 0\n")
}

func TestSummary_Markdown(t *testing.T) {
	s := drift.Summary{Tables: drift.DiffSet{MissingInRight: []string{"dbo.Old", "dbo.Older"}}}
	opts := FormatterOptions{Style: StyleMarkdown, Source: "staging", Target: "prod"}

	out := render(t, opts, s)
	require.True(t, strings.HasPrefix(out, "## Drift Summary: staging vs prod\n\n### Modules\n- changed: 0\n"))
	require.Contains(t, out, "### Tables\n- changed: 0\n- missing in prod: 0\n- missing in staging: 2\n  - `dbo.Old`, `dbo.Older`\n")
}

func TestSummary_JSON(t *testing.T) {
	out := render(t, FormatterOptions{Style: StyleJSON}, drift.Summary{Tables: drift.DiffSet{Changed: []string{"dbo.Users"}}})
	require.Equal(t,
		`{"modules":{"changed":[],"missingInRight":[],"missingInLeft":[]},`+
			`"indexes":{"changed":[],"missingInRight":[],"missingInLeft":[]},`+
			`"constraints":{"changed":[],"missingInRight":[],"missingInLeft":[]},`+
			`"tables":{"changed":["dbo.Users"],"missingInRight":[],"missingInLeft":[]}}`+"\n",
		out,
	)

	pretty := render(t, FormatterOptions{Style: StyleJSON, Pretty: true}, sampleSummary())
	require.Contains(t, pretty, "\n  \"modules\": {\n    \"changed\": [\n")

	var decoded map[string]map[string][]string
	require.NoError(t, json.Unmarshal([]byte(pretty), &decoded))
	require.Equal(t, []string{"dbo.Procedure.GetTotal"}, decoded["modules"]["missingInLeft"])
}

func TestSummary_Table(t *testing.T) {
	out := render(t, FormatterOptions{}, sampleSummary())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	fields := func(i int) []string { return strings.Fields(lines[i]) }
	require.Equal(t, []string{"Type", "Changed", "Only", "in", "source", "Only", "in", "target"}, fields(0))
	require.Equal(t, []string{"Modules", "1", "1", "1"}, fields(2))
	require.Equal(t, []string{"Tables", "1", "0", "0"}, fields(3))
	require.Equal(t, []string{"Indexes", "0", "1", "0"}, fields(4))
	require.Equal(t, []string{"Constraints", "0", "0", "1"}, fields(5))
	require.Empty(t, lines[6])
	require.Equal(t, []string{"Object", "Kind", "Status"}, fields(7))
	require.Equal(t, []string{"dbo.ActiveUsers", "VIEW", "Changed"}, fields(9))
	require.Len(t, lines, 9+len(DriftRows(sampleSummary())))

	// Columns line up.
	require.Equal(t, strings.Index(lines[0], "Changed"), strings.Index(lines[2], "1"))
}

func TestSummary_TableWithoutDrift(t *testing.T) {
	out := render(t, FormatterOptions{Style: StyleTable}, drift.Summary{})
	require.NotContains(t, out, "Object")
	require.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 6)
}

func TestSummary_UnknownStyle(t *testing.T) {
	err := Summary(&bytes.Buffer{}, FormatterOptions{Style: "yaml"}, drift.Summary{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownStyle))
}

func TestDriftRows(t *testing.T) {
	rows := DriftRows(sampleSummary())
	require.Equal(t, []DriftRow{
		{Object: "dbo.ActiveUsers", Kind: "VIEW", Status: "Changed"},
		{Object: "dbo.GetTotal", Kind: "PROCEDURE", Status: "Only in source"},
		{Object: "dbo.trgAudit", Kind: "TRIGGER", Status: "Only in target"},
		{Object: "dbo.Users", Kind: "Table", Status: "Changed"},
		{Object: "dbo.Users", Kind: "Index", Status: "Only in source"},
		{Object: "dbo.Orders", Kind: "CHECK", Status: "Only in target"},
	}, rows)
}
