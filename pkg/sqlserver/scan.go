package sqlserver

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/pseudomuto/sqlsrv/pkg/utils"
)

// constraintTypes maps sys.key_constraints type descriptors onto the short names
// used by the other constraint queries.
var constraintTypes = map[string]string{
	"PRIMARY_KEY_CONSTRAINT": "PK",
	"UNIQUE_CONSTRAINT":      "UNIQUE",
}

// queryRows runs query and calls scan once per row, closing the rows when done.
func queryRows(ctx context.Context, q Querier, what, query string, scan func(Rows) error) error {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return apperr.Wrapf(apperr.Query, err, "failed to query %s", what)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return apperr.Wrap(apperr.Query, errors.Wrapf(err, "failed to scan %s row", what), "")
		}
	}

	if err := rows.Err(); err != nil {
		return apperr.Wrapf(apperr.Query, err, "failed to read %s", what)
	}

	return nil
}

func fetchModules(ctx context.Context, q Querier, query string) ([]snapshot.ModuleRow, error) {
	var out []snapshot.ModuleRow
	err := queryRows(ctx, q, "modules", query, func(rows Rows) error {
		var schema, name, typ, def sql.NullString
		if err := rows.Scan(&schema, &name, &typ, &def); err != nil {
			return err
		}

		out = append(out, snapshot.ModuleRow{
			Schema:     schema.String,
			Name:       name.String,
			Type:       snapshot.ModuleTypeFromCode(typ.String),
			Definition: def.String,
		})
		return nil
	})
	return out, err
}

func fetchIndexes(ctx context.Context, q Querier, query string) ([]snapshot.IndexRow, error) {
	var out []snapshot.IndexRow
	err := queryRows(ctx, q, "indexes", query, func(rows Rows) error {
		var (
			schema, table, name, typ sql.NullString
			unique, pk, uq           sql.NullBool
			keys, includes           sql.NullString
		)
		if err := rows.Scan(&schema, &table, &name, &typ, &unique, &pk, &uq, &keys, &includes); err != nil {
			return err
		}

		out = append(out, snapshot.IndexRow{
			Schema:           schema.String,
			Table:            table.String,
			Name:             name.String,
			Type:             typ.String,
			Unique:           unique.Bool,
			PrimaryKey:       pk.Bool,
			UniqueConstraint: uq.Bool,
			KeyColumns:       utils.SplitList(keys.String),
			IncludeColumns:   utils.SplitList(includes.String),
		})
		return nil
	})
	return out, err
}

func fetchConstraints(ctx context.Context, q Querier, query string) ([]snapshot.ConstraintRow, error) {
	var out []snapshot.ConstraintRow
	err := queryRows(ctx, q, "constraints", query, func(rows Rows) error {
		var schema, table, name, typ, def sql.NullString
		if err := rows.Scan(&schema, &table, &name, &typ, &def); err != nil {
			return err
		}

		t := strings.TrimSpace(typ.String)
		if short, ok := constraintTypes[t]; ok {
			t = short
		}

		out = append(out, snapshot.ConstraintRow{
			Schema:     schema.String,
			Table:      table.String,
			Name:       name.String,
			Type:       t,
			Definition: def.String,
		})
		return nil
	})
	return out, err
}

func fetchTables(ctx context.Context, q Querier, query string) ([]snapshot.TableRow, error) {
	var out []snapshot.TableRow
	err := queryRows(ctx, q, "tables", query, func(rows Rows) error {
		var schema, table, cols, idxs, checks sql.NullString
		if err := rows.Scan(&schema, &table, &cols, &idxs, &checks); err != nil {
			return err
		}

		out = append(out, snapshot.TableRow{
			Schema:           schema.String,
			Table:            table.String,
			ColumnsSignature: cols.String,
			IndexesSignature: idxs.String,
			ChecksSignature:  checks.String,
		})
		return nil
	})
	return out, err
}

func fetchTableColumns(ctx context.Context, q Querier, query string) ([]snapshot.TableColumnRow, error) {
	var out []snapshot.TableColumnRow
	err := queryRows(ctx, q, "table columns", query, func(rows Rows) error {
		var (
			schema, table, name, dataType sql.NullString
			id, maxLen, precision, scale  sql.NullInt64
			nullable, identity            sql.NullBool
			def, computed                 sql.NullString
		)
		err := rows.Scan(
			&schema, &table, &id, &name, &dataType,
			&maxLen, &precision, &scale,
			&nullable, &identity, &def, &computed,
		)
		if err != nil {
			return err
		}

		out = append(out, snapshot.TableColumnRow{
			Schema:             schema.String,
			Table:              table.String,
			ColumnID:           id.Int64,
			Name:               name.String,
			DataType:           dataType.String,
			MaxLength:          maxLen.Int64,
			Precision:          precision.Int64,
			Scale:              scale.Int64,
			Nullable:           nullable.Bool,
			Identity:           identity.Bool,
			DefaultDefinition:  def.String,
			ComputedDefinition: computed.String,
		})
		return nil
	})
	return out, err
}
