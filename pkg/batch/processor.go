package batch

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowbuild"
	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// Row is one driver result-set row: one value per column, in schema
// order. A nil entry means SQL NULL.
type Row []any

// Processor buffers rows into a RecordBatch, emitting one every
// Config.BatchSize rows. Grounded on hdbconnect-arrow's
// conversion::processor::HanaBatchProcessor.
type Processor struct {
	schema   *arrow.Schema
	colTypes []arrowtype.ColumnType
	config   Config
	factory  *arrowbuild.Factory
	builders []arrowbuild.Builder
	rowCount int
}

// NewProcessor creates a processor for schema/colTypes (column-order
// aligned) using cfg for batch sizing and builder preallocation.
func NewProcessor(schema *arrow.Schema, colTypes []arrowtype.ColumnType, cfg Config) *Processor {
	factory := arrowbuild.NewFactory(cfg.BatchSize).
		WithStringCapacity(cfg.StringCapacity).
		WithBinaryCapacity(cfg.BinaryCapacity)
	return &Processor{
		schema:   schema,
		colTypes: colTypes,
		config:   cfg,
		factory:  factory,
		builders: factory.CreateForSchema(colTypes),
	}
}

// NewProcessorWithDefaults creates a processor using DefaultConfig.
func NewProcessorWithDefaults(schema *arrow.Schema, colTypes []arrowtype.ColumnType) *Processor {
	return NewProcessor(schema, colTypes, DefaultConfig())
}

// ProcessRow appends row to the buffered builders. It returns a non-nil
// RecordBatch once BatchSize rows have accumulated, and nil otherwise.
func (p *Processor) ProcessRow(row Row) (arrow.Record, error) {
	if len(row) != len(p.builders) {
		return nil, errs.New(errs.KindSchemaMismatch, "row column count does not match schema").
			WithDetail("expected", len(p.builders)).
			WithDetail("actual", len(row))
	}

	for i, builder := range p.builders {
		value := row[i]
		if value == nil {
			builder.AppendNull()
			continue
		}
		if err := builder.AppendValue(value); err != nil {
			return nil, err
		}
	}
	p.rowCount++

	if p.rowCount >= p.config.BatchSize {
		return p.finishCurrentBatch()
	}
	return nil, nil
}

// Flush emits any buffered rows as a final batch, or returns nil if no
// rows are buffered.
func (p *Processor) Flush() (arrow.Record, error) {
	if p.rowCount == 0 {
		return nil, nil
	}
	return p.finishCurrentBatch()
}

// Schema returns the schema of batches this processor produces.
func (p *Processor) Schema() *arrow.Schema { return p.schema }

// BufferedRows returns the number of rows currently buffered.
func (p *Processor) BufferedRows() int { return p.rowCount }

func (p *Processor) finishCurrentBatch() (arrow.Record, error) {
	arrays := make([]arrow.Array, len(p.builders))
	for i, b := range p.builders {
		arrays[i] = b.Finish()
	}

	record := array.NewRecord(p.schema, arrays, int64(p.rowCount))

	p.builders = p.factory.CreateForSchema(p.colTypes)
	p.rowCount = 0
	return record, nil
}
