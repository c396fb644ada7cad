package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
)

func TestProcessor_BuffersUntilBatchSize(t *testing.T) {
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}}
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})

	p := NewProcessor(schema, colTypes, Config{BatchSize: 2, StringCapacity: 1024, BinaryCapacity: 1024})
	assert.Equal(t, 0, p.BufferedRows())

	batch, err := p.ProcessRow(Row{int64(1)})
	require.NoError(t, err)
	assert.Nil(t, batch)
	assert.Equal(t, 1, p.BufferedRows())

	batch, err = p.ProcessRow(Row{int64(2)})
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.EqualValues(t, 2, batch.NumRows())
	assert.Equal(t, 0, p.BufferedRows())
}

func TestProcessor_FlushEmitsPartialBatch(t *testing.T) {
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}}
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})

	p := NewProcessor(schema, colTypes, Config{BatchSize: 100, StringCapacity: 1024, BinaryCapacity: 1024})

	batch, err := p.Flush()
	require.NoError(t, err)
	assert.Nil(t, batch)

	_, err = p.ProcessRow(Row{int64(1)})
	require.NoError(t, err)

	batch, err = p.Flush()
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.EqualValues(t, 1, batch.NumRows())
}

func TestProcessor_RejectsWrongColumnCount(t *testing.T) {
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}}
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})
	p := NewProcessor(schema, colTypes, DefaultConfig())

	_, err := p.ProcessRow(Row{int64(1), int64(2)})
	require.Error(t, err)
}

func TestProcessor_NullValue(t *testing.T) {
	colTypes := []arrowtype.ColumnType{{Kind: arrowtype.KindUtf8}}
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "name", TypeID: arrowtype.TypeVarChar, Nullable: true},
	})
	p := NewProcessor(schema, colTypes, DefaultConfig())

	_, err := p.ProcessRow(Row{nil})
	require.NoError(t, err)
	batch, err := p.Flush()
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.True(t, batch.Column(0).IsNull(0))
}
