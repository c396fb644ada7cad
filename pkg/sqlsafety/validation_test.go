package sqlsafety

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier(t *testing.T) {
	assert.True(t, IsValidIdentifier("USERS"))
	assert.True(t, IsValidIdentifier("my_table"))
	assert.True(t, IsValidIdentifier("Schema1"))
	assert.True(t, IsValidIdentifier("$system"))
	assert.True(t, IsValidIdentifier("#temp"))
	assert.True(t, IsValidIdentifier("table_$1"))

	assert.False(t, IsValidIdentifier(""))
	assert.False(t, IsValidIdentifier("1table"))
	assert.False(t, IsValidIdentifier("123"))
	assert.False(t, IsValidIdentifier("table-name"))
	assert.False(t, IsValidIdentifier("table.name"))
	assert.False(t, IsValidIdentifier("table name"))
	assert.False(t, IsValidIdentifier("table;drop"))
	assert.False(t, IsValidIdentifier("table'--"))
	assert.False(t, IsValidIdentifier(strings.Repeat("a", 128)))
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("users", "table name"))
	assert.Error(t, ValidateIdentifier("user;--", "table name"))
}

func TestValidateReadOnlySQL_Allows(t *testing.T) {
	cases := []string{
		"SELECT * FROM users",
		"  select id from t",
		"WITH cte AS (SELECT 1) SELECT * FROM cte",
		"EXPLAIN PLAN FOR SELECT * FROM t",
		"-- select data\nSELECT * FROM users",
		"WITH a AS (SELECT 1), b AS (SELECT * FROM a) SELECT * FROM b",
		"",
		"   ",
	}
	for _, sql := range cases {
		assert.NoError(t, ValidateReadOnlySQL(sql), sql)
	}
}

func TestValidateReadOnlySQL_Blocks(t *testing.T) {
	cases := []string{
		"INSERT INTO users VALUES (1)",
		"UPDATE users SET name = 'x'",
		"DELETE FROM users",
		"DROP TABLE users",
		"CREATE TABLE users (id INT)",
		"ALTER TABLE users ADD COLUMN x",
		"TRUNCATE TABLE users",
		"MERGE INTO t USING s ON t.id = s.id",
		"UPSERT t VALUES (1, 'a')",
		"CALL my_procedure()",
		"EXEC my_procedure",
		"EXECUTE my_procedure",
		"-- comment\nINSERT INTO users VALUES (1)",
		"/* comment */ INSERT INTO users VALUES (1)",
		"WITH cte AS (SELECT 1) INSERT INTO users SELECT * FROM cte",
		"WITH cte AS (SELECT 1) DELETE FROM users WHERE id IN (SELECT * FROM cte)",
		"WITH cte AS (SELECT 1) UPDATE users SET x = 1 WHERE id IN (SELECT * FROM cte)",
		"SELECT 1; INSERT INTO t VALUES (1)",
	}
	for _, sql := range cases {
		assert.Error(t, ValidateReadOnlySQL(sql), sql)
	}
}

func TestStripSQLComments_PreservesStringLiterals(t *testing.T) {
	cleaned := StripSQLComments("SELECT '--not a comment' FROM t")
	assert.Contains(t, cleaned, "'--not a comment'")
}

func TestStripSQLComments_LineComment(t *testing.T) {
	cleaned := StripSQLComments("SELECT * -- comment\nFROM users")
	assert.NotContains(t, cleaned, "comment")
	assert.Contains(t, cleaned, "SELECT")
	assert.Contains(t, cleaned, "FROM")
}

func TestStripSQLComments_BlockComment(t *testing.T) {
	cleaned := StripSQLComments("SELECT /* comment */ * FROM users")
	assert.NotContains(t, cleaned, "comment")
	assert.Contains(t, cleaned, "SELECT")
	assert.Contains(t, cleaned, "*")
}

func TestValidateDMLSQL(t *testing.T) {
	op, err := ValidateDMLSQL("INSERT INTO users (name) VALUES ('test')")
	require.NoError(t, err)
	assert.Equal(t, DMLInsert, op)

	op, err = ValidateDMLSQL("UPDATE users SET name = 'new' WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, DMLUpdate, op)

	op, err = ValidateDMLSQL("DELETE FROM users WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, DMLDelete, op)

	_, err = ValidateDMLSQL("")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("SELECT * FROM users")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("DROP TABLE users")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("TRUNCATE TABLE users")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("INSERT INTO t VALUES (1); DELETE FROM t")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("INSERT INTO t SELECT * FROM (DROP TABLE x)")
	assert.Error(t, err)

	_, err = ValidateDMLSQL("INSERT INTO users VALUES (1);")
	assert.NoError(t, err)
}

func TestValidateWhereClause(t *testing.T) {
	assert.NoError(t, ValidateWhereClause("UPDATE users SET name = 'x' WHERE id = 1", DMLUpdate))
	assert.Error(t, ValidateWhereClause("UPDATE users SET name = 'x'", DMLUpdate))
	assert.Error(t, ValidateWhereClause("DELETE FROM users", DMLDelete))
	assert.NoError(t, ValidateWhereClause("-- comment\nDELETE FROM users WHERE id = 1", DMLDelete))
	assert.NoError(t, ValidateWhereClause("delete from users where id = 1", DMLDelete))
}

func TestValidateProcedureName(t *testing.T) {
	assert.NoError(t, ValidateProcedureName("MY_PROCEDURE"))
	assert.NoError(t, ValidateProcedureName("get_user"))
	assert.NoError(t, ValidateProcedureName("SCHEMA.PROCEDURE"))
	assert.NoError(t, ValidateProcedureName("my_schema.my_proc"))

	assert.Error(t, ValidateProcedureName(""))
	assert.Error(t, ValidateProcedureName("a.b.c"))
	assert.Error(t, ValidateProcedureName("my;proc"))
}

func TestValidateLIKEPattern(t *testing.T) {
	assert.NoError(t, ValidateLIKEPattern("abc%"))
	assert.NoError(t, ValidateLIKEPattern("user_%"))
	assert.Error(t, ValidateLIKEPattern(""))
	assert.Error(t, ValidateLIKEPattern(strings.Repeat("a", 128)))
	assert.Error(t, ValidateLIKEPattern("abc; DROP TABLE x"))
}

func TestParseQualifiedName(t *testing.T) {
	schema, proc := ParseQualifiedName("SCHEMA.PROCEDURE", "")
	assert.Equal(t, "SCHEMA", schema)
	assert.Equal(t, "PROCEDURE", proc)

	schema, proc = ParseQualifiedName("PROCEDURE", "")
	assert.Equal(t, "", schema)
	assert.Equal(t, "PROCEDURE", proc)

	schema, proc = ParseQualifiedName("PROCEDURE", "DEFAULT")
	assert.Equal(t, "DEFAULT", schema)
	assert.Equal(t, "PROCEDURE", proc)
}
