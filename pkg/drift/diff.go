package drift

import (
	"encoding/json"
	"sort"

	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
)

type (
	// Options controls how definitions are normalized before comparison.
	Options struct {
		IgnoreWhitespace bool
		StripComments    bool
	}

	// DiffSet partitions the keys of two maps into three disjoint, sorted lists.
	DiffSet struct {
		// Changed holds keys present on both sides with different values.
		Changed []string `json:"changed"`

		// MissingInRight holds keys that only exist in the left map.
		MissingInRight []string `json:"missingInRight"`

		// MissingInLeft holds keys that only exist in the right map.
		MissingInLeft []string `json:"missingInLeft"`
	}

	// Summary is the per-category result of comparing two snapshots.
	Summary struct {
		Modules     DiffSet `json:"modules"`
		Indexes     DiffSet `json:"indexes"`
		Constraints DiffSet `json:"constraints"`
		Tables      DiffSet `json:"tables"`
	}
)

// Diff classifies every key of left and right.
//
// A key in both maps with unequal values is Changed, a key only in left is
// MissingInRight and a key only in right is MissingInLeft. All three lists are
// sorted ascending.
//
// Example:
//
//	left := map[string]string{"a": "1", "b": "2"}
//	right := map[string]string{"a": "1", "c": "3"}
//
//	d := Diff(left, right)
//	// d.Changed == []
//	// d.MissingInRight == ["b"]
//	// d.MissingInLeft == ["c"]
func Diff(left, right map[string]string) DiffSet {
	d := DiffSet{
		Changed:        []string{},
		MissingInRight: []string{},
		MissingInLeft:  []string{},
	}

	for k, lv := range left {
		rv, ok := right[k]
		if !ok {
			d.MissingInRight = append(d.MissingInRight, k)
			continue
		}

		if lv != rv {
			d.Changed = append(d.Changed, k)
		}
	}

	for k := range right {
		if _, ok := left[k]; !ok {
			d.MissingInLeft = append(d.MissingInLeft, k)
		}
	}

	sort.Strings(d.Changed)
	sort.Strings(d.MissingInRight)
	sort.Strings(d.MissingInLeft)
	return d
}

// Summarize indexes both snapshots and diffs each category independently.
//
// Direction matters: keys only present in right are reported as MissingInLeft. The
// compare command passes the target as left and the source as right, so objects
// that only exist in the source land in MissingInLeft.
func Summarize(left, right *snapshot.Snapshot, opts Options) Summary {
	return Summary{
		Modules:     Diff(ModuleMap(left.Modules, opts), ModuleMap(right.Modules, opts)),
		Indexes:     Diff(IndexMap(left.Indexes), IndexMap(right.Indexes)),
		Constraints: Diff(ConstraintMap(left.Constraints, opts), ConstraintMap(right.Constraints, opts)),
		Tables:      Diff(TableMap(left.Tables), TableMap(right.Tables)),
	}
}

// HasDrift reports whether any category has any difference.
func HasDrift(s Summary) bool {
	return s.HasDrift()
}

// HasDrift reports whether any category has any difference.
func (s Summary) HasDrift() bool {
	for _, d := range s.Categories() {
		if !d.Set.Empty() {
			return true
		}
	}
	return false
}

// Category pairs a display title with its diff set.
type Category struct {
	Title string
	Set   DiffSet
}

// Categories returns the four categories in display order.
func (s Summary) Categories() []Category {
	return []Category{
		{Title: "Modules", Set: s.Modules},
		{Title: "Indexes", Set: s.Indexes},
		{Title: "Constraints", Set: s.Constraints},
		{Title: "Tables", Set: s.Tables},
	}
}

// Empty reports whether the set has no entries in any partition.
func (d DiffSet) Empty() bool {
	return len(d.Changed) == 0 && len(d.MissingInRight) == 0 && len(d.MissingInLeft) == 0
}

// MarshalJSON guarantees the three lists encode as arrays, never null.
func (d DiffSet) MarshalJSON() ([]byte, error) {
	type alias DiffSet
	return json.Marshal(alias{
		Changed:        nonNil(d.Changed),
		MissingInRight: nonNil(d.MissingInRight),
		MissingInLeft:  nonNil(d.MissingInLeft),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
