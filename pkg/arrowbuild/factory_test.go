package arrowbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
)

func TestFactory_CreateForSchema(t *testing.T) {
	f := NewFactory(100)
	cols := []arrowtype.ColumnType{
		{Kind: arrowtype.KindInt32},
		{Kind: arrowtype.KindUtf8},
		{Kind: arrowtype.KindDecimal, Precision: 18, Scale: 2},
	}
	builders := f.CreateForSchema(cols)
	require.Len(t, builders, 3)

	_, ok := builders[0].(*Int32Builder)
	assert.True(t, ok)
	_, ok = builders[1].(*StringBuilder)
	assert.True(t, ok)
	_, ok = builders[2].(*DecimalBuilder)
	assert.True(t, ok)
}

func TestFactory_UnknownKindFallsBackToString(t *testing.T) {
	f := NewFactory(10)
	b := f.Create(arrowtype.ColumnType{Kind: arrowtype.Kind(999)})
	_, ok := b.(*StringBuilder)
	assert.True(t, ok)
}
