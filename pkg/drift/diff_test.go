package drift_test

import (
	"encoding/json"
	"sort"
	"testing"

	. "github.com/pseudomuto/sqlsrv/pkg/drift"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name           string
		left, right    map[string]string
		changed        []string
		missingInRight []string
		missingInLeft  []string
	}{
		{
			name:           "missing on both sides",
			left:           map[string]string{"a": "1", "b": "2"},
			right:          map[string]string{"a": "1", "c": "3"},
			changed:        []string{},
			missingInRight: []string{"b"},
			missingInLeft:  []string{"c"},
		},
		{
			name:           "changed values are sorted",
			left:           map[string]string{"z": "1", "m": "1", "a": "1"},
			right:          map[string]string{"z": "2", "m": "2", "a": "1"},
			changed:        []string{"m", "z"},
			missingInRight: []string{},
			missingInLeft:  []string{},
		},
		{
			name:           "empty maps",
			left:           map[string]string{},
			right:          map[string]string{},
			changed:        []string{},
			missingInRight: []string{},
			missingInLeft:  []string{},
		},
		{
			name:           "nil left",
			left:           nil,
			right:          map[string]string{"b": "1", "a": "1"},
			changed:        []string{},
			missingInRight: []string{},
			missingInLeft:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.left, tt.right)
			require.Equal(t, tt.changed, d.Changed)
			require.Equal(t, tt.missingInRight, d.MissingInRight)
			require.Equal(t, tt.missingInLeft, d.MissingInLeft)
		})
	}
}

func TestDiff_PartitionsAreDisjointAndExhaustive(t *testing.T) {
	left := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}
	right := map[string]string{"b": "2", "c": "x", "e": "5", "f": "6"}

	d := Diff(left, right)

	seen := map[string]int{}
	for _, list := range [][]string{d.Changed, d.MissingInRight, d.MissingInLeft} {
		for _, k := range list {
			seen[k]++
		}
	}
	for k, n := range seen {
		require.Equal(t, 1, n, "key %s appears in more than one partition", k)
	}

	// Every key of the union is either classified or equal on both sides.
	for k := range left {
		if rv, ok := right[k]; ok && rv == left[k] {
			require.NotContains(t, seen, k)
			continue
		}
		require.Contains(t, seen, k)
	}
	for k := range right {
		if _, ok := left[k]; !ok {
			require.Contains(t, d.MissingInLeft, k)
		}
	}

	require.True(t, sort.StringsAreSorted(d.Changed))
	require.True(t, sort.StringsAreSorted(d.MissingInRight))
	require.True(t, sort.StringsAreSorted(d.MissingInLeft))
}

func TestDiff_Reflexive(t *testing.T) {
	m := map[string]string{"a": "1", "b": "2", "c": ""}
	require.True(t, Diff(m, m).Empty())
}

func TestSummarize(t *testing.T) {
	source := &snapshot.Snapshot{
		Name: "staging",
		Modules: []snapshot.ModuleRow{
			{Schema: "dbo", Name: "Foo", Type: snapshot.Procedure, Definition: "CREATE PROC Foo AS SELECT 1"},
			{Schema: "dbo", Name: "Bar", Type: snapshot.View, Definition: "CREATE VIEW Bar AS SELECT 1"},
		},
	}
	target := &snapshot.Snapshot{
		Name: "production",
		Modules: []snapshot.ModuleRow{
			{Schema: "dbo", Name: "Bar", Type: snapshot.View, Definition: "CREATE VIEW Bar AS SELECT 1\n-- trailing note\n\n\n"},
		},
	}

	t.Run("source only procedure is missing in left", func(t *testing.T) {
		s := Summarize(target, source, Options{IgnoreWhitespace: true, StripComments: true})
		require.Equal(t, []string{"dbo.Procedure.Foo"}, s.Modules.MissingInLeft)
		require.Empty(t, s.Modules.Changed)
		require.Empty(t, s.Modules.MissingInRight)
		require.True(t, s.HasDrift())
	})

	t.Run("trailing comments are not drift when stripped", func(t *testing.T) {
		s := Summarize(target, source, Options{IgnoreWhitespace: true, StripComments: true})
		require.NotContains(t, s.Modules.Changed, "dbo.View.Bar")
	})

	t.Run("trailing comments are drift when kept", func(t *testing.T) {
		s := Summarize(target, source, Options{})
		require.Equal(t, []string{"dbo.View.Bar"}, s.Modules.Changed)
	})
}

func TestSummarize_SelfHasNoDrift(t *testing.T) {
	snap := sampleSnapshot()
	for _, opts := range []Options{{}, {IgnoreWhitespace: true}, {StripComments: true}, {IgnoreWhitespace: true, StripComments: true}} {
		s := Summarize(snap, snap, opts)
		require.False(t, s.HasDrift())
		require.False(t, HasDrift(s))
	}
}

func TestSummarize_IndexChangeIsAddRemovePair(t *testing.T) {
	left := &snapshot.Snapshot{Indexes: []snapshot.IndexRow{
		{Schema: "dbo", Table: "Users", Name: "IX_Users_Email", Type: "NONCLUSTERED", KeyColumns: []string{"Email ASC"}},
	}}
	right := &snapshot.Snapshot{Indexes: []snapshot.IndexRow{
		{Schema: "dbo", Table: "Users", Name: "IX_Users_Email", Type: "NONCLUSTERED", Unique: true, KeyColumns: []string{"Email ASC"}},
	}}

	s := Summarize(left, right, Options{})
	require.Empty(t, s.Indexes.Changed)
	require.Len(t, s.Indexes.MissingInRight, 1)
	require.Len(t, s.Indexes.MissingInLeft, 1)
	require.Equal(t, "dbo.Users", ObjectOf(s.Indexes.MissingInRight[0]))
	require.Equal(t, "dbo.Users", ObjectOf(s.Indexes.MissingInLeft[0]))
}

func TestSummarize_Tables(t *testing.T) {
	left := &snapshot.Snapshot{Tables: []snapshot.TableRow{
		{Schema: "dbo", Table: "Users", ColumnsSignature: "1:Id", IndexesSignature: "IX_A"},
		{Schema: "dbo", Table: "Old", ColumnsSignature: "1:Id"},
	}}
	right := &snapshot.Snapshot{Tables: []snapshot.TableRow{
		{Schema: "dbo", Table: "Users", ColumnsSignature: "1:Id||2:Name", IndexesSignature: "IX_A"},
		{Schema: "dbo", Table: "New", ColumnsSignature: "1:Id"},
	}}

	s := Summarize(left, right, Options{})
	require.Equal(t, []string{"dbo.Users"}, s.Tables.Changed)
	require.Equal(t, []string{"dbo.Old"}, s.Tables.MissingInRight)
	require.Equal(t, []string{"dbo.New"}, s.Tables.MissingInLeft)
}

func TestDiffSet_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Summary{})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"modules": {"changed": [], "missingInRight": [], "missingInLeft": []},
		"indexes": {"changed": [], "missingInRight": [], "missingInLeft": []},
		"constraints": {"changed": [], "missingInRight": [], "missingInLeft": []},
		"tables": {"changed": [], "missingInRight": [], "missingInLeft": []}
	}`, string(b))
}

func sampleSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Name: "sample",
		Modules: []snapshot.ModuleRow{
			{Schema: "dbo", Name: "GetTotal", Type: snapshot.Function, Definition: "CREATE FUNCTION GetTotal() RETURNS int AS BEGIN RETURN 1 END"},
		},
		Indexes: []snapshot.IndexRow{
			{Schema: "dbo", Table: "Users", Name: "PK_Users", Type: "CLUSTERED", Unique: true, PrimaryKey: true, KeyColumns: []string{"Id ASC"}},
		},
		Constraints: []snapshot.ConstraintRow{
			{Schema: "dbo", Table: "Users", Name: "CK_Age", Type: "CHECK", Definition: "([Age]>=(0))"},
		},
		Tables: []snapshot.TableRow{
			{Schema: "dbo", Table: "Users", ColumnsSignature: "1:Id:int", IndexesSignature: "", ChecksSignature: "([Age]>=(0))"},
		},
	}
}
