package snapshot

import (
	"sort"
	"strings"
)

// ModuleType is the logical kind of a programmable object.
type ModuleType string

const (
	Procedure ModuleType = "Procedure"
	View      ModuleType = "View"
	Function  ModuleType = "Function"
	Trigger   ModuleType = "Trigger"
	Other     ModuleType = "Other"
)

// ModuleTypeFromCode maps a sys.objects type code onto a ModuleType.
//
// Scalar, inline and table-valued functions (FN, IF, TF) all collapse to Function.
// Unknown codes map to Other rather than failing, since the fetcher should never
// reject rows it doesn't understand.
func ModuleTypeFromCode(code string) ModuleType {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "P":
		return Procedure
	case "V":
		return View
	case "FN", "IF", "TF":
		return Function
	case "TR":
		return Trigger
	default:
		if t, ok := parseModuleType(code); ok {
			return t
		}
		return Other
	}
}

func parseModuleType(s string) (ModuleType, bool) {
	for _, t := range []ModuleType{Procedure, View, Function, Trigger, Other} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// Keyword returns the T-SQL keyword used in DDL for the type (PROCEDURE, VIEW, ...).
func (t ModuleType) Keyword() string {
	switch t {
	case Procedure:
		return "PROCEDURE"
	case View:
		return "VIEW"
	case Function:
		return "FUNCTION"
	case Trigger:
		return "TRIGGER"
	default:
		return "OBJECT"
	}
}

// Droppable reports whether `DROP <KEYWORD> IF EXISTS` is a safe generic form for the type.
func (t ModuleType) Droppable() bool {
	return t == Procedure || t == View || t == Function
}

type (
	// Snapshot is the captured catalog metadata for one database across a fixed schema set.
	// It's built once by the fetcher and treated as read-only afterwards.
	Snapshot struct {
		Name         string           `json:"name"`
		Modules      []ModuleRow      `json:"modules"`
		Indexes      []IndexRow       `json:"indexes"`
		Constraints  []ConstraintRow  `json:"constraints"`
		Tables       []TableRow       `json:"tables"`
		TableColumns []TableColumnRow `json:"tableColumns"`
	}

	// ModuleRow is a procedure, view, function or trigger with its captured definition.
	ModuleRow struct {
		Schema     string     `json:"schemaName"`
		Name       string     `json:"name"`
		Type       ModuleType `json:"type"`
		Definition string     `json:"definition"`
	}

	// IndexRow describes one named, non-hypothetical index.
	IndexRow struct {
		Schema           string   `json:"schemaName"`
		Table            string   `json:"tableName"`
		Name             string   `json:"name"`
		Type             string   `json:"type"`
		Unique           bool     `json:"isUnique"`
		PrimaryKey       bool     `json:"isPrimaryKey"`
		UniqueConstraint bool     `json:"isUniqueConstraint"`
		KeyColumns       []string `json:"keyColumns"`
		IncludeColumns   []string `json:"includeColumns"`
	}

	// ConstraintRow is a FK, PK, UNIQUE, CHECK or DEFAULT constraint.
	ConstraintRow struct {
		Schema     string `json:"schemaName"`
		Table      string `json:"tableName"`
		Name       string `json:"name"`
		Type       string `json:"type"`
		Definition string `json:"definition"`
	}

	// TableRow is the coarse pre-aggregated summary of a table. The three signatures are
	// opaque strings produced by the catalog query and only ever compared for equality.
	TableRow struct {
		Schema           string `json:"schemaName"`
		Table            string `json:"tableName"`
		ColumnsSignature string `json:"columns"`
		IndexesSignature string `json:"indexes"`
		ChecksSignature  string `json:"checks"`
	}

	// TableColumnRow is a single column of a user table.
	TableColumnRow struct {
		Schema             string `json:"schemaName"`
		Table              string `json:"tableName"`
		ColumnID           int64  `json:"columnId"`
		Name               string `json:"columnName"`
		DataType           string `json:"dataType"`
		MaxLength          int64  `json:"maxLength"`
		Precision          int64  `json:"precision"`
		Scale              int64  `json:"scale"`
		Nullable           bool   `json:"isNullable"`
		Identity           bool   `json:"isIdentity"`
		DefaultDefinition  string `json:"defaultDefinition"`
		ComputedDefinition string `json:"computedDefinition"`
	}
)

// Key returns the module identity used by the diff maps: schema.type.name.
func (m ModuleRow) Key() string {
	return m.Schema + "." + string(m.Type) + "." + m.Name
}

// QualifiedName returns schema.name.
func (m ModuleRow) QualifiedName() string {
	return m.Schema + "." + m.Name
}

// TableKey returns schema.table.
func (t TableRow) TableKey() string {
	return TableKey(t.Schema, t.Table)
}

// TableKey returns schema.table.
func (c TableColumnRow) TableKey() string {
	return TableKey(c.Schema, c.Table)
}

// TableKey joins a schema and table name into the key used across the tables category.
func TableKey(schema, table string) string {
	return schema + "." + table
}

// SplitTableKey is the inverse of TableKey. A key without a dot yields an empty schema.
func SplitTableKey(key string) (schema, table string) {
	if i := strings.Index(key, "."); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

// ParseModuleKey splits a schema.type.name key. Names containing dots are kept whole.
func ParseModuleKey(key string) (schema string, typ ModuleType, name string, ok bool) {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) < 3 {
		return "", "", "", false
	}

	t, known := parseModuleType(parts[1])
	if !known {
		t = ModuleTypeFromCode(parts[1])
	}
	return parts[0], t, parts[2], true
}

// ColumnsByTable groups column rows per schema.table, each group sorted by ColumnID.
//
// The result preserves first-seen table order so iteration is deterministic.
func (s *Snapshot) ColumnsByTable() *TableColumns {
	tc := &TableColumns{byKey: make(map[string]int)}
	for _, col := range s.TableColumns {
		tc.add(col)
	}

	for i := range tc.groups {
		cols := tc.groups[i].Columns
		sort.SliceStable(cols, func(a, b int) bool { return cols[a].ColumnID < cols[b].ColumnID })
	}
	return tc
}

// FindModules returns the modules matching pred, in snapshot order.
func (s *Snapshot) FindModules(pred func(ModuleRow) bool) []ModuleRow {
	var out []ModuleRow
	for _, m := range s.Modules {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

type (
	// TableColumns is an ordered insert-or-update map of table key to its columns.
	TableColumns struct {
		groups []TableColumnGroup
		byKey  map[string]int
	}

	// TableColumnGroup holds the columns of a single table.
	TableColumnGroup struct {
		Key     string
		Columns []TableColumnRow
	}
)

func (tc *TableColumns) add(col TableColumnRow) {
	key := col.TableKey()
	idx, ok := tc.byKey[key]
	if !ok {
		idx = len(tc.groups)
		tc.byKey[key] = idx
		tc.groups = append(tc.groups, TableColumnGroup{Key: key})
	}
	tc.groups[idx].Columns = append(tc.groups[idx].Columns, col)
}

// Get returns the columns of the table, ordered by ColumnID.
func (tc *TableColumns) Get(key string) []TableColumnRow {
	if idx, ok := tc.byKey[key]; ok {
		return tc.groups[idx].Columns
	}
	return nil
}
