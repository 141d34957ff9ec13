package utils

import "strings"

// SQLBuilder provides a fluent interface for building T-SQL DDL statements.
// It handles identifier bracketing and conditional clause building so the
// apply script generator doesn't have to.
//
// Example usage:
//
//	sql := NewSQLBuilder().
//		Drop("PROCEDURE").
//		IfExists().
//		QualifiedName("dbo", "GetTotal").
//		String()
//	// Output: DROP PROCEDURE IF EXISTS [dbo].[GetTotal];
type SQLBuilder struct {
	parts []string
}

// NewSQLBuilder creates a new SQLBuilder instance.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{
		parts: make([]string, 0, 10),
	}
}

// Create adds a CREATE clause with the specified object type.
//
// Example:
//
//	builder.Create("TABLE")     // CREATE TABLE
func (b *SQLBuilder) Create(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "CREATE", objectType)
	return b
}

// Drop adds a DROP clause with the specified object type.
//
// Example:
//
//	builder.Drop("PROCEDURE")   // DROP PROCEDURE
func (b *SQLBuilder) Drop(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "DROP", objectType)
	return b
}

// Alter adds an ALTER clause with the specified object type.
//
// Example:
//
//	builder.Alter("TABLE")      // ALTER TABLE
func (b *SQLBuilder) Alter(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "ALTER", objectType)
	return b
}

// IfExists adds an IF EXISTS clause. This should be called after DROP operations.
//
// Example:
//
//	builder.Drop("VIEW").IfExists()  // DROP VIEW IF EXISTS
func (b *SQLBuilder) IfExists() *SQLBuilder {
	b.parts = append(b.parts, "IF", "EXISTS")
	return b
}

// QualifiedName adds a schema qualified, bracketed name.
//
// Example:
//
//	builder.QualifiedName("dbo", "Users")  // [dbo].[Users]
//	builder.QualifiedName("", "Users")     // [Users]
func (b *SQLBuilder) QualifiedName(schema, name string) *SQLBuilder {
	if qualified := BracketQualifiedName(schema, name); qualified != "" {
		b.parts = append(b.parts, qualified)
	}
	return b
}

// String builds and returns the final SQL statement with a semicolon.
func (b *SQLBuilder) String() string {
	if len(b.parts) == 0 {
		return ""
	}
	return strings.Join(b.parts, " ") + ";"
}

// StringWithoutSemicolon builds and returns the final SQL statement without a semicolon.
// Useful for building parts of larger statements.
func (b *SQLBuilder) StringWithoutSemicolon() string {
	return strings.Join(b.parts, " ")
}
