package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestCacheKey_TableSchema_UppercasesAndJoins(t *testing.T) {
	k := TableSchema(strp("myschema"), "users")
	assert.Equal(t, "tbl_schema:MYSCHEMA:USERS", k.String())
}

func TestCacheKey_TableSchema_NoSchema(t *testing.T) {
	k := TableSchema(nil, "users")
	assert.Equal(t, "tbl_schema:USERS", k.String())
}

func TestCacheKey_TableList_UsesAllSentinel(t *testing.T) {
	k := TableList(strp("s1"))
	assert.Equal(t, "tbl_list:S1:_all", k.String())
}

func TestCacheKey_ProcedureList_WithPattern(t *testing.T) {
	k := ProcedureList(strp("s1"), strp("get_%"))
	assert.Equal(t, "proc_list:S1:_all:GET_%", k.String())
}

func TestCacheKey_QueryResult_RequiresUser(t *testing.T) {
	k := QueryResult("SELECT 1 FROM DUMMY", nil, SystemUser)
	assert.Contains(t, k.String(), "u:_system")
	assert.True(t, k.hasUserID)
}

func TestCacheKey_QueryResult_DifferentUsersDifferentKeys(t *testing.T) {
	a := QueryResult("SELECT * FROM T", nil, "user_a")
	b := QueryResult("SELECT * FROM T", nil, "user_b")
	assert.NotEqual(t, a.String(), b.String())
}

func TestCacheKey_QueryResult_SameSqlSameUserIsDeterministic(t *testing.T) {
	a := QueryResult("SELECT * FROM T", nil, "user_a")
	b := QueryResult("SELECT * FROM T", nil, "user_a")
	assert.Equal(t, a.String(), b.String())
}

func TestCacheKey_QueryResult_LimitIsVariant(t *testing.T) {
	a := QueryResult("SELECT * FROM T", intp(100), "user_a")
	b := QueryResult("SELECT * FROM T", intp(200), "user_a")
	assert.NotEqual(t, a.String(), b.String())
}

func intp(i int) *int { return &i }

func TestCacheKey_NamespacePrefix(t *testing.T) {
	k := TableSchema(strp("s1"), "t1")
	assert.Equal(t, "tbl_schema:S1", k.NamespacePrefix())

	k2 := TableList(nil)
	assert.Equal(t, "tbl_list", k2.NamespacePrefix())
}

func TestCacheKey_WithUser(t *testing.T) {
	k := TableSchema(strp("s1"), "t1").WithUser(strp("alice"))
	assert.Contains(t, k.String(), "u:alice")
}

func TestCacheKey_Custom(t *testing.T) {
	k := Custom("my-ident", strp("v1"))
	assert.Equal(t, "custom:my-ident:v1", k.String())
}
