package utils_test

import (
	"testing"

	"github.com/pseudomuto/sqlsrv/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestSQLBuilder(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() *utils.SQLBuilder
		expected string
	}{
		{
			name:     "CREATE TABLE",
			builder:  func() *utils.SQLBuilder { return utils.NewSQLBuilder().Create("TABLE").QualifiedName("dbo", "Users") },
			expected: "CREATE TABLE [dbo].[Users];",
		},
		{
			name: "DROP PROCEDURE IF EXISTS",
			builder: func() *utils.SQLBuilder {
				return utils.NewSQLBuilder().Drop("PROCEDURE").IfExists().QualifiedName("dbo", "GetTotal")
			},
			expected: "DROP PROCEDURE IF EXISTS [dbo].[GetTotal];",
		},
		{
			name:     "empty qualified name is skipped",
			builder:  func() *utils.SQLBuilder { return utils.NewSQLBuilder().Drop("VIEW").QualifiedName("", "") },
			expected: "DROP VIEW;",
		},
		{
			name:     "empty builder",
			builder:  utils.NewSQLBuilder,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.builder().String())
		})
	}
}

func TestSQLBuilder_StringWithoutSemicolon(t *testing.T) {
	sql := utils.NewSQLBuilder().Alter("TABLE").QualifiedName("dbo", "T")
	require.Equal(t, "ALTER TABLE [dbo].[T]", sql.StringWithoutSemicolon())

	sql = utils.NewSQLBuilder().Create("TABLE").QualifiedName("", "T")
	require.Equal(t, "CREATE TABLE [T]", sql.StringWithoutSemicolon())
}
