package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
)

func TestRowsToRecordBatch_Empty(t *testing.T) {
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})
	batch, err := RowsToRecordBatch(nil, schema, []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, batch.NumRows())
	assert.EqualValues(t, 1, batch.NumCols())
}

func TestRowsToRecordBatch_MultipleRows(t *testing.T) {
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
		{Name: "name", TypeID: arrowtype.TypeVarChar, Nullable: true},
	})
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}, {Kind: arrowtype.KindUtf8}}

	rows := []Row{
		{int64(1), "alice"},
		{int64(2), nil},
	}
	batch, err := RowsToRecordBatch(rows, schema, colTypes)
	require.NoError(t, err)
	assert.EqualValues(t, 2, batch.NumRows())
	assert.True(t, batch.Column(1).IsNull(1))
}

func TestRowsToRecordBatch_SchemaMismatch(t *testing.T) {
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}}

	rows := []Row{{int64(1), int64(2)}}
	_, err := RowsToRecordBatch(rows, schema, colTypes)
	require.Error(t, err)
}
