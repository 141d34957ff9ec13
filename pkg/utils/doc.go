// Package utils provides common utility functions used throughout sqlsrv.
//
// # Identifier Utilities (identifier.go)
//
// SQL Server identifiers are quoted with square brackets. BracketIdentifier and
// BracketQualifiedName are used for every name written into generated DDL:
//
//	utils.BracketQualifiedName("dbo", "Users")
//	// Result: [dbo].[Users]
//
// StringLiteral and StringList quote values for catalog query filters.
//
// # SQL Builder (sqlbuilder.go)
//
// SQLBuilder assembles single DDL statements fluently:
//
//	utils.NewSQLBuilder().Drop("VIEW").IfExists().QualifiedName("web", "ActiveUsers").String()
//	// Result: DROP VIEW IF EXISTS [web].[ActiveUsers];
//
// # Value Utilities (validation.go)
//
// ParseBool understands the boolean spellings used by ADO connection strings and
// environment variables; SplitList parses comma separated flag values.
package utils
