package batch

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/SAP/hdbconnect-mcp/pkg/arrowbuild"
	"github.com/SAP/hdbconnect-mcp/pkg/arrowtype"
	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// RowsToRecordBatch converts an in-memory slice of rows into a single
// Arrow Record, for result sets small enough to not need the streaming
// Processor. Grounded on hdbconnect-arrow's conversion::batch::
// rows_to_record_batch.
func RowsToRecordBatch(rows []Row, schema *arrow.Schema, colTypes []arrowtype.ColumnType) (arrow.Record, error) {
	if len(rows) == 0 {
		factory := arrowbuild.NewFactory(0)
		builders := factory.CreateForSchema(colTypes)
		arrays := make([]arrow.Array, len(builders))
		for i, b := range builders {
			arrays[i] = b.Finish()
		}
		return array.NewRecord(schema, arrays, 0), nil
	}

	numColumns := len(colTypes)
	if len(rows[0]) != numColumns {
		return nil, errs.New(errs.KindSchemaMismatch, "row column count does not match schema").
			WithDetail("expected", numColumns).
			WithDetail("actual", len(rows[0]))
	}

	factory := arrowbuild.NewFactory(len(rows))
	builders := factory.CreateForSchema(colTypes)

	for _, row := range rows {
		if len(row) != len(builders) {
			return nil, errs.New(errs.KindSchemaMismatch, "row column count does not match schema").
				WithDetail("expected", len(builders)).
				WithDetail("actual", len(row))
		}
		for i, builder := range builders {
			value := row[i]
			if value == nil {
				builder.AppendNull()
				continue
			}
			if err := builder.AppendValue(value); err != nil {
				return nil, err
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = b.Finish()
	}

	return array.NewRecord(schema, arrays, int64(len(rows))), nil
}
