package objectdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/pseudomuto/sqlsrv/pkg/drift"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
)

// Status is the outcome of comparing a single object.
type Status int

const (
	// NotFound means neither snapshot has a module with the requested name.
	NotFound Status = iota
	// Same means both sides have the module and their normalized definitions match.
	Same
	// Differs means the module exists on only one side, or both definitions differ.
	Differs
)

func (s Status) String() string {
	switch s {
	case Same:
		return "same"
	case Differs:
		return "differs"
	default:
		return "not found"
	}
}

// ExitCode maps the status onto the process exit code reported by compare --object.
func (s Status) ExitCode() int {
	switch s {
	case Same:
		return consts.ExitOK
	case Differs:
		return consts.ExitDrift
	default:
		return consts.ExitNotFound
	}
}

// Options controls how definitions are compared and how the diff is rendered.
type Options struct {
	drift.Options

	// Context is the number of unchanged lines shown around each hunk. Zero shows
	// only the changed lines; a negative value selects consts.DefaultContextRadius.
	Context int
}

// Result holds everything needed to present the comparison of one object.
type Result struct {
	Name   string
	Status Status

	LeftName  string
	RightName string
	Left      *snapshot.ModuleRow
	Right     *snapshot.ModuleRow

	// Unified is set when both sides exist and differ.
	Unified string
}

// Diff looks up name in both snapshots and compares the module definitions.
//
// name is either schema.name or a bare name, matched case-insensitively. A bare
// name resolves to the first module with that name in snapshot order, whatever
// its schema.
func Diff(left, right *snapshot.Snapshot, name string, opts Options) (*Result, error) {
	res := &Result{
		Name:      name,
		LeftName:  left.Name,
		RightName: right.Name,
		Left:      Find(left, name),
		Right:     Find(right, name),
	}

	switch {
	case res.Left == nil && res.Right == nil:
		res.Status = NotFound
	case res.Left != nil && res.Right != nil:
		l := drift.Normalize(res.Left.Definition, opts.IgnoreWhitespace, opts.StripComments)
		r := drift.Normalize(res.Right.Definition, opts.IgnoreWhitespace, opts.StripComments)
		if l == r {
			res.Status = Same
			break
		}

		res.Status = Differs
		unified, err := unifiedDiff(left.Name, *res.Left, right.Name, *res.Right, opts.context())
		if err != nil {
			return nil, err
		}
		res.Unified = unified
	default:
		res.Status = Differs
	}

	return res, nil
}

// Find returns the first module matching name, or nil.
func Find(snap *snapshot.Snapshot, name string) *snapshot.ModuleRow {
	matches := snap.FindModules(matcher(name))
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func matcher(name string) func(snapshot.ModuleRow) bool {
	if parts := strings.Split(name, "."); len(parts) == 2 {
		return func(m snapshot.ModuleRow) bool {
			return strings.EqualFold(m.Schema, parts[0]) && strings.EqualFold(m.Name, parts[1])
		}
	}

	return func(m snapshot.ModuleRow) bool {
		return strings.EqualFold(m.Name, name)
	}
}

func (o Options) context() int {
	if o.Context < 0 {
		return consts.DefaultContextRadius
	}
	return o.Context
}

func header(snap string, m snapshot.ModuleRow) string {
	return fmt.Sprintf("%s:%s.%s.%s", snap, m.Schema, m.Name, m.Type)
}

func unifiedDiff(leftName string, left snapshot.ModuleRow, rightName string, right snapshot.ModuleRow, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(drift.NormalizeLineEndings(left.Definition)),
		B:        difflib.SplitLines(drift.NormalizeLineEndings(right.Definition)),
		FromFile: header(leftName, left),
		ToFile:   header(rightName, right),
		Context:  context,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Wrap(err, "failed to compute unified diff")
	}
	return text, nil
}

// WriteTo prints the result the way compare --object reports it.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	switch {
	case r.Status == NotFound:
		fmt.Fprintf(&b, "Object '%s' not found in either side.\n", r.Name)
	case r.Status == Same:
		fmt.Fprintf(&b, "No substantive drift for %s (whitespace/comments ignored).\n", r.Name)
	case r.Unified != "":
		b.WriteString(r.Unified)
	default:
		fmt.Fprintf(&b, "Left: %s\n%s\n", label(r.Left), body(r.Left))
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Right: %s\n%s\n", label(r.Right), body(r.Right))
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func label(m *snapshot.ModuleRow) string {
	if m == nil {
		return "missing"
	}
	return m.QualifiedName()
}

func body(m *snapshot.ModuleRow) string {
	if m == nil {
		return ""
	}
	return drift.NormalizeLineEndings(m.Definition)
}
