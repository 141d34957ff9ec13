package utils

import "strings"

// BracketIdentifier wraps a single identifier in square brackets, doubling any
// closing bracket inside it (the same escaping QUOTENAME applies). Names come
// straight from the catalog, so brackets already in a name are part of it.
//
// Examples:
//   - "Users" -> "[Users]"
//   - "Order Details" -> "[Order Details]"
//   - "odd]name" -> "[odd]]name]"
//   - "[odd]" -> "[[odd]]]"
//   - "" -> ""
func BracketIdentifier(name string) string {
	if name == "" {
		return ""
	}
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// BracketQualifiedName formats schema.name with each part bracketed.
// If schema is empty, only the name is bracketed.
//
// Examples:
//   - ("dbo", "Users") -> "[dbo].[Users]"
//   - ("", "Users") -> "[Users]"
func BracketQualifiedName(schema, name string) string {
	if schema != "" {
		return BracketIdentifier(schema) + "." + BracketIdentifier(name)
	}
	return BracketIdentifier(name)
}

// StringLiteral renders s as a T-SQL unicode string literal with quotes escaped.
//
// Examples:
//   - "dbo" -> "N'dbo'"
//   - "O'Brien" -> "N'O''Brien'"
func StringLiteral(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// StringList renders values as a comma separated list of string literals, suitable
// for an IN (...) clause.
func StringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = StringLiteral(v)
	}
	return strings.Join(quoted, ",")
}
