package drift

import (
	"encoding/json"
	"strings"

	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
)

// KeySeparator splits the identity prefix of index and constraint keys from the
// embedded signature.
const KeySeparator = "::"

type (
	indexSignature struct {
		Type             string `json:"type"`
		Unique           bool   `json:"unique"`
		PrimaryKey       bool   `json:"primaryKey"`
		UniqueConstraint bool   `json:"uniqueConstraint"`
		KeyColumns       string `json:"keyColumns"`
		IncludeColumns   string `json:"includeColumns"`
	}

	// TableSignature is the decoded value of a tables-category map entry.
	TableSignature struct {
		Columns string `json:"columns"`
		Indexes string `json:"indexes"`
		Checks  string `json:"checks"`
	}
)

// ModuleMap keys every module by schema.type.name with its normalized definition as value.
func ModuleMap(rows []snapshot.ModuleRow, opts Options) map[string]string {
	m := make(map[string]string, len(rows))
	for _, row := range rows {
		m[row.Key()] = Normalize(row.Definition, opts.IgnoreWhitespace, opts.StripComments)
	}
	return m
}

// IndexMap keys every index by schema.table::<signature>.
//
// The signature is part of the key, so an index whose shape changed never shows up
// as changed: it appears once as missing on each side.
func IndexMap(rows []snapshot.IndexRow) map[string]string {
	m := make(map[string]string, len(rows))
	for _, row := range rows {
		sig := mustJSON(indexSignature{
			Type:             row.Type,
			Unique:           row.Unique,
			PrimaryKey:       row.PrimaryKey,
			UniqueConstraint: row.UniqueConstraint,
			KeyColumns:       strings.Join(row.KeyColumns, ","),
			IncludeColumns:   strings.Join(row.IncludeColumns, ","),
		})
		m[snapshot.TableKey(row.Schema, row.Table)+KeySeparator+sig] = sig
	}
	return m
}

// ConstraintMap keys every constraint by schema.table.type::<normalized definition>.
// The value is the key itself; like indexes, a changed constraint is an add/remove pair.
func ConstraintMap(rows []snapshot.ConstraintRow, opts Options) map[string]string {
	m := make(map[string]string, len(rows))
	for _, row := range rows {
		def := Normalize(row.Definition, opts.IgnoreWhitespace, opts.StripComments)
		key := snapshot.TableKey(row.Schema, row.Table) + "." + row.Type + KeySeparator + def
		m[key] = key
	}
	return m
}

// TableMap keys every table by schema.table with its combined coarse signature as value.
func TableMap(rows []snapshot.TableRow) map[string]string {
	m := make(map[string]string, len(rows))
	for _, row := range rows {
		m[row.TableKey()] = TableSignatureOf(row).String()
	}
	return m
}

// TableSignatureOf extracts the three sub-signatures of a table row.
func TableSignatureOf(row snapshot.TableRow) TableSignature {
	return TableSignature{
		Columns: row.ColumnsSignature,
		Indexes: row.IndexesSignature,
		Checks:  row.ChecksSignature,
	}
}

// String encodes the signature as the compact JSON stored in the tables map.
func (s TableSignature) String() string {
	return mustJSON(s)
}

// ObjectOf strips the embedded signature from an index or constraint key.
func ObjectOf(key string) string {
	if i := strings.Index(key, KeySeparator); i >= 0 {
		return key[:i]
	}
	return key
}

// NB: the structs marshalled here only hold strings and bools, which can't fail.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
