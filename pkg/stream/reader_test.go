package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
	"github.com/SAP/hdbconnect-mcp/pkg/batch"
)

type sliceSource struct {
	rows []batch.Row
	i    int
	err  error
}

func (s *sliceSource) Next() (batch.Row, bool, error) {
	if s.err != nil && s.i >= len(s.rows) {
		return nil, false, s.err
	}
	if s.i >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.i]
	s.i++
	return row, true, nil
}

func testProcessor(batchSize int) *batch.Processor {
	schema := arrowtype.SchemaFromMetadata([]arrowtype.ColumnMetadata{
		{Name: "id", TypeID: arrowtype.TypeInt, Nullable: false},
	})
	return batch.NewProcessor(schema, []arrowtype.ColumnType{{Kind: arrowtype.KindInt32}},
		batch.Config{BatchSize: batchSize, StringCapacity: 1024, BinaryCapacity: 1024})
}

func TestBlockingReader_YieldsBatchesThenFlush(t *testing.T) {
	src := &sliceSource{rows: []batch.Row{{int64(1)}, {int64(2)}, {int64(3)}}}
	r := NewBlockingReader(src, testProcessor(2))

	require.True(t, r.Next())
	assert.EqualValues(t, 2, r.Record().NumRows())

	require.True(t, r.Next())
	assert.EqualValues(t, 1, r.Record().NumRows())

	require.False(t, r.Next())
	require.NoError(t, r.Err())
}

func TestBlockingReader_PropagatesSourceError(t *testing.T) {
	src := &sliceSource{rows: []batch.Row{{int64(1)}}, err: errors.New("connection reset")}
	r := NewBlockingReader(src, testProcessor(10))

	// First row buffered, no batch yet (size 10); second Next() call hits the error.
	require.False(t, r.Next())
	require.Error(t, r.Err())
}

func TestBlockingReader_ReentrancyGuard(t *testing.T) {
	src := &sliceSource{rows: []batch.Row{{int64(1)}}}
	r := NewBlockingReader(src, testProcessor(10))
	r.guard.begin()
	assert.Panics(t, func() { r.guard.begin() })
	r.guard.end()
}

func TestCooperativeReader_DrainsAllBatches(t *testing.T) {
	src := &sliceSource{rows: []batch.Row{{int64(1)}, {int64(2)}, {int64(3)}, {int64(4)}, {int64(5)}}}
	r := NewCooperativeReader(context.Background(), src, testProcessor(2))
	defer r.Close()

	total := int64(0)
	for r.Next() {
		total += r.Record().NumRows()
	}
	require.NoError(t, r.Err())
	assert.EqualValues(t, 5, total)
}

func TestCooperativeReader_CloseCancelsProducer(t *testing.T) {
	src := &sliceSource{rows: make([]batch.Row, 1000)}
	for i := range src.rows {
		src.rows[i] = batch.Row{int64(i)}
	}
	r := NewCooperativeReader(context.Background(), src, testProcessor(1))
	require.True(t, r.Next())
	require.NoError(t, r.Close())
}
