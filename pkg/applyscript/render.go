package applyscript

import (
	"strconv"
	"strings"

	"github.com/pseudomuto/sqlsrv/pkg/drift"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/pseudomuto/sqlsrv/pkg/utils"
)

// NothingToApply is the whole script when the summary has nothing this package can act on.
const NothingToApply = "-- No drift detected; nothing to apply"

const batchSeparator = "GO"

// Render synthesizes a best-effort T-SQL script that moves target towards source.
//
// The summary must have been produced with target on the left and source on the
// right, so that MissingInLeft holds objects that only exist in source. Output is
// emitted in a fixed order: table changes, then drops (only when includeDrops is
// set), then CREATE OR ALTER for changed and source-only modules. Batches are
// separated with GO.
//
// Render never fails. Anything it cannot reconstruct safely is written as a
// comment for a human to act on, and destructive column changes are never
// generated. When no section produces output the result is NothingToApply.
func Render(summary drift.Summary, source, target *snapshot.Snapshot, includeDrops bool) string {
	r := &renderer{
		source:     source,
		target:     target,
		sourceCols: source.ColumnsByTable(),
		targetCols: target.ColumnsByTable(),
	}

	var lines []string
	lines = append(lines, r.tables(summary.Tables)...)
	if includeDrops {
		lines = append(lines, r.drops(summary.Modules)...)
	}
	lines = append(lines, r.modules(summary.Modules)...)

	if len(lines) == 0 {
		return NothingToApply
	}
	return strings.Join(lines, "\n")
}

type renderer struct {
	source     *snapshot.Snapshot
	target     *snapshot.Snapshot
	sourceCols *snapshot.TableColumns
	targetCols *snapshot.TableColumns
}

func (r *renderer) tables(set drift.DiffSet) []string {
	if set.Empty() {
		return nil
	}

	lines := []string{
		"-- Table drift detected; non-destructive additions are applied automatically; other changes remain commented.",
	}

	sourceSigs := tableSignatures(r.source)
	targetSigs := tableSignatures(r.target)

	for _, key := range set.Changed {
		lines = append(lines, tableTODO(key, targetSigs[key], sourceSigs[key])...)
		lines = append(lines, addColumns(key, r.sourceCols.Get(key), r.targetCols.Get(key))...)
	}

	for _, key := range set.MissingInLeft {
		lines = append(lines, "-- Table "+key+" exists only in source. Consider creating it locally.")
		lines = append(lines, createTable(key, r.sourceCols.Get(key))...)
	}

	for _, key := range set.MissingInRight {
		lines = append(lines, "-- Table "+key+" exists only in target. Decide whether to drop or keep.")
	}

	return lines
}

func tableSignatures(snap *snapshot.Snapshot) map[string]drift.TableSignature {
	sigs := make(map[string]drift.TableSignature, len(snap.Tables))
	for _, t := range snap.Tables {
		sigs[t.TableKey()] = drift.TableSignatureOf(t)
	}
	return sigs
}

// tableTODO compares the three sub-signatures independently and names the ones that differ.
func tableTODO(key string, target, source drift.TableSignature) []string {
	lines := []string{"-- TODO: Table drift detected for " + key}

	if target.Columns != source.Columns {
		lines = append(lines,
			"--   Columns differ (type/nullability/default/identity/computed). Review and craft ALTER TABLE for "+key+".")
	}

	if target.Indexes != source.Indexes {
		lines = append(lines, "--   Non-PK/unique indexes differ. Consider recreating indexes to match source.")
	}

	if target.Checks != source.Checks {
		lines = append(lines, "--   CHECK constraints differ. Align definitions as needed.")
	}

	return append(lines, "")
}

// addColumns emits ALTER TABLE ... ADD for source columns whose name (case-insensitive)
// is absent from the target.
func addColumns(key string, sourceCols, targetCols []snapshot.TableColumnRow) []string {
	existing := make(map[string]struct{}, len(targetCols))
	for _, col := range targetCols {
		existing[strings.ToLower(col.Name)] = struct{}{}
	}

	var defs []string
	for _, col := range sourceCols {
		if _, ok := existing[strings.ToLower(col.Name)]; !ok {
			defs = append(defs, ColumnDefinition(col))
		}
	}

	if len(defs) == 0 {
		return nil
	}

	schema, table := snapshot.SplitTableKey(key)
	return []string{
		"-- Adding " + strconv.Itoa(len(defs)) + " column(s) to " + key,
		utils.NewSQLBuilder().Alter("TABLE").QualifiedName(schema, table).StringWithoutSemicolon(),
		"  ADD " + strings.Join(defs, ",\n      "),
		batchSeparator,
		"",
	}
}

func createTable(key string, cols []snapshot.TableColumnRow) []string {
	if len(cols) == 0 {
		return []string{"-- TODO: no column metadata captured for " + key + "; script the table manually"}
	}

	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = ColumnDefinition(col)
	}

	schema, table := snapshot.SplitTableKey(key)
	return []string{
		utils.NewSQLBuilder().Create("TABLE").QualifiedName(schema, table).StringWithoutSemicolon() + " (\n  " + strings.Join(defs, ",\n  ") + "\n);\n" + batchSeparator + "\n",
	}
}

func (r *renderer) drops(set drift.DiffSet) []string {
	if len(set.MissingInRight) == 0 {
		return nil
	}

	lines := []string{"-- Dropping objects that exist only in target"}
	for _, key := range set.MissingInRight {
		schema, typ, name, ok := snapshot.ParseModuleKey(key)
		if !ok {
			continue
		}

		if typ.Droppable() {
			lines = append(lines, utils.NewSQLBuilder().
				Drop(typ.Keyword()).
				IfExists().
				QualifiedName(schema, name).
				String())
			continue
		}

		lines = append(lines, "-- TODO: drop "+typ.Keyword()+" "+schema+"."+name+" manually")
	}

	return append(lines, batchSeparator)
}

func (r *renderer) modules(set drift.DiffSet) []string {
	byKey := make(map[string]snapshot.ModuleRow, len(r.source.Modules))
	for _, m := range r.source.Modules {
		byKey[m.Key()] = m
	}

	var lines []string
	emit := func(keys []string, reason string) {
		for _, key := range keys {
			m, ok := byKey[key]
			if !ok {
				continue
			}
			lines = append(lines, moduleBatch(m, reason)...)
		}
	}

	emit(set.Changed, "ALTER")
	emit(set.MissingInLeft, "CREATE")
	return lines
}

func moduleBatch(m snapshot.ModuleRow, reason string) []string {
	keyword := m.Type.Keyword()
	header := "-- " + reason + ": " + m.QualifiedName() + " (" + keyword + ")"

	if m.Type == snapshot.Other || !HasCreate(m.Definition) {
		lines := []string{header, "-- TODO: unable to rewrite definition of " + m.QualifiedName() + "; apply manually"}
		for _, line := range strings.Split(drift.NormalizeLineEndings(strings.TrimSpace(m.Definition)), "\n") {
			lines = append(lines, "-- "+line)
		}
		return append(lines, "")
	}

	return []string{header, CreateOrAlter(m.Definition, keyword), batchSeparator, ""}
}
