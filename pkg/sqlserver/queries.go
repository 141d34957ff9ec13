package sqlserver

import (
	"strings"

	"github.com/pseudomuto/sqlsrv/pkg/utils"
)

// Queries holds the five catalog queries that make up a snapshot.
type Queries struct {
	Modules      string
	Indexes      string
	Constraints  string
	Tables       string
	TableColumns string
}

const schemaListPlaceholder = "{{schemas}}"

// BuildQueries renders the catalog queries restricted to the given schemas. Schema
// names are embedded as escaped N'...' literals.
func BuildQueries(schemas []string) Queries {
	list := utils.StringList(schemas)
	if list == "" {
		// IN () is a syntax error; an empty list should simply match nothing.
		list = "NULL"
	}

	render := func(q string) string {
		return strings.ReplaceAll(q, schemaListPlaceholder, list)
	}

	return Queries{
		Modules:      render(modulesQuery),
		Indexes:      render(indexesQuery),
		Constraints:  render(constraintsQuery),
		Tables:       render(tablesQuery),
		TableColumns: render(tableColumnsQuery),
	}
}

const modulesQuery = `
	SELECT s.name AS schema_name, o.name, o.type, ISNULL(sm.definition, N'') AS definition
	FROM sys.objects o
	JOIN sys.schemas s ON s.schema_id = o.schema_id
	LEFT JOIN sys.sql_modules sm ON sm.object_id = o.object_id
	WHERE s.name IN ({{schemas}})
	  AND o.type IN ('P','V','FN','IF','TF','TR')
	ORDER BY s.name, o.name, o.type;
`

const columnsSelect = `
	SELECT
	  s.name AS schema_name,
	  t.name AS table_name,
	  c.column_id,
	  c.name AS column_name,
	  TYPE_NAME(c.user_type_id) AS data_type,
	  c.max_length,
	  c.precision,
	  c.scale,
	  c.is_nullable,
	  c.is_identity,
	  OBJECT_DEFINITION(dc.object_id) AS default_definition,
	  cc.definition AS computed_definition
	FROM sys.tables t
	JOIN sys.schemas s ON s.schema_id = t.schema_id
	JOIN sys.columns c ON c.object_id = t.object_id
	LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
	LEFT JOIN sys.computed_columns cc ON cc.object_id = c.object_id AND cc.column_id = c.column_id
	WHERE s.name IN ({{schemas}})
`

const tableColumnsQuery = columnsSelect + `	ORDER BY s.name, t.name, c.column_id;
`

const tablesQuery = `
	WITH cols AS (` + columnsSelect + `),
	colagg AS (
	  SELECT schema_name, table_name,
	         STRING_AGG(
	           CONCAT(
	             column_id, ':', column_name, ':', data_type, ':', max_length, ':', precision, ':', scale, ':',
	             is_nullable, ':', is_identity, ':', ISNULL(default_definition, ''), ':', ISNULL(computed_definition, '')
	           ), '||'
	         ) WITHIN GROUP (ORDER BY column_id) AS columns
	  FROM cols
	  GROUP BY schema_name, table_name
	),
	idx AS (
	  SELECT s.name AS schema_name, t.name AS table_name,
	         STRING_AGG(i.name, ',') WITHIN GROUP (ORDER BY i.name) AS idxs
	  FROM sys.indexes i
	  JOIN sys.tables t ON t.object_id = i.object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	  WHERE s.name IN ({{schemas}})
	    AND i.is_primary_key = 0 AND i.is_unique_constraint = 0 AND i.name IS NOT NULL
	  GROUP BY s.name, t.name
	),
	chk AS (
	  SELECT s.name AS schema_name, t.name AS table_name,
	         STRING_AGG(c.definition, '||') WITHIN GROUP (ORDER BY c.name) AS checks
	  FROM sys.check_constraints c
	  JOIN sys.tables t ON t.object_id = c.parent_object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	  WHERE s.name IN ({{schemas}})
	  GROUP BY s.name, t.name
	)
	SELECT
	  c.schema_name,
	  c.table_name,
	  c.columns,
	  ISNULL(i.idxs, '') AS indexes,
	  ISNULL(ch.checks, '') AS checks
	FROM colagg c
	LEFT JOIN idx i ON i.schema_name = c.schema_name AND i.table_name = c.table_name
	LEFT JOIN chk ch ON ch.schema_name = c.schema_name AND ch.table_name = c.table_name
	ORDER BY c.schema_name, c.table_name;
`

const indexesQuery = `
	SELECT s.name AS schema_name,
	       t.name AS table_name,
	       i.name AS index_name,
	       i.type_desc,
	       i.is_unique,
	       i.is_primary_key,
	       i.is_unique_constraint,
	       key_cols.keys AS key_columns,
	       include_cols.includes AS include_columns
	FROM sys.indexes i
	  JOIN sys.tables t ON t.object_id = i.object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	  CROSS APPLY (
	    SELECT STRING_AGG(CONCAT(c.name, ' ', CASE WHEN ic.is_descending_key = 1 THEN 'DESC' ELSE 'ASC' END), ',')
	           WITHIN GROUP (ORDER BY ic.key_ordinal) AS keys
	    FROM sys.index_columns ic
	      JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
	    WHERE ic.object_id = i.object_id
	      AND ic.index_id = i.index_id
	      AND ic.is_included_column = 0
	  ) key_cols
	  CROSS APPLY (
	    SELECT STRING_AGG(c.name, ',') AS includes
	    FROM sys.index_columns ic
	      JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
	    WHERE ic.object_id = i.object_id
	      AND ic.index_id = i.index_id
	      AND ic.is_included_column = 1
	  ) include_cols
	WHERE s.name IN ({{schemas}})
	  AND i.is_hypothetical = 0
	  AND i.name IS NOT NULL
	ORDER BY s.name, t.name, i.name;
`

const constraintsQuery = `
	SELECT s.name AS schema_name,
	       o.name AS table_name,
	       fk.name AS name,
	       'FK' AS type,
	       OBJECT_DEFINITION(fk.object_id) AS definition
	FROM sys.foreign_keys fk
	  JOIN sys.objects o ON o.object_id = fk.parent_object_id
	  JOIN sys.schemas s ON s.schema_id = o.schema_id
	WHERE s.name IN ({{schemas}})
	UNION ALL
	SELECT s.name, t.name, kc.name, kc.type_desc, OBJECT_DEFINITION(kc.object_id)
	FROM sys.key_constraints kc
	  JOIN sys.tables t ON t.object_id = kc.parent_object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	WHERE s.name IN ({{schemas}})
	UNION ALL
	SELECT s.name, t.name, c.name, 'CHECK', OBJECT_DEFINITION(c.object_id)
	FROM sys.check_constraints c
	  JOIN sys.tables t ON t.object_id = c.parent_object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	WHERE s.name IN ({{schemas}})
	UNION ALL
	SELECT s.name, t.name, d.name, 'DEFAULT', OBJECT_DEFINITION(d.object_id)
	FROM sys.default_constraints d
	  JOIN sys.tables t ON t.object_id = d.parent_object_id
	  JOIN sys.schemas s ON s.schema_id = t.schema_id
	WHERE s.name IN ({{schemas}})
	ORDER BY schema_name, table_name, name;
`
