package applyscript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/pseudomuto/sqlsrv/pkg/utils"
)

// ColumnDefinition reconstructs the DDL fragment for a single column as it would
// appear in CREATE TABLE or ALTER TABLE ... ADD.
//
// Computed columns render as `[name] AS <expr>` and nothing else. Otherwise the
// fragment is the bracketed name, the type spec, IDENTITY when set, NULL or
// NOT NULL, and a DEFAULT clause when the column has one.
//
// Examples:
//
//	[Id] int IDENTITY NOT NULL
//	[Name] nvarchar(50) NOT NULL DEFAULT ('')
//	[Total] AS ([Qty]*[Price])
func ColumnDefinition(col snapshot.TableColumnRow) string {
	name := utils.BracketIdentifier(col.Name)
	if col.ComputedDefinition != "" {
		return name + " AS " + col.ComputedDefinition
	}

	parts := []string{name, FormatType(col)}
	if col.Identity {
		parts = append(parts, "IDENTITY")
	}

	if col.Nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if col.DefaultDefinition != "" {
		parts = append(parts, "DEFAULT "+col.DefaultDefinition)
	}

	return strings.Join(parts, " ")
}

// FormatType renders the column's type with its length, precision or scale.
//
// Length types use max for -1 and report nchar/nvarchar lengths in characters
// rather than the byte count stored in the catalog.
func FormatType(col snapshot.TableColumnRow) string {
	dt := strings.ToLower(col.DataType)

	switch dt {
	case "varchar", "char", "varbinary", "binary":
		return dt + "(" + lengthSpec(col.MaxLength) + ")"
	case "nvarchar", "nchar":
		n := col.MaxLength
		if n > 0 {
			n /= 2
		}
		return dt + "(" + lengthSpec(n) + ")"
	case "decimal", "numeric":
		return fmt.Sprintf("%s(%d,%d)", dt, col.Precision, col.Scale)
	case "datetime2", "time", "datetimeoffset":
		return fmt.Sprintf("%s(%d)", dt, col.Scale)
	default:
		return dt
	}
}

func lengthSpec(n int64) string {
	if n == -1 {
		return "max"
	}
	return strconv.FormatInt(n, 10)
}
