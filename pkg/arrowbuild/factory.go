package arrowbuild

import "github.com/SAP/hdbconnect-mcp/pkg/arrowtype"

// Factory creates a Builder for a resolved arrowtype.ColumnType, sizing
// each builder's preallocation from a row-count capacity plus estimated
// per-value byte costs for variable-length columns.
type Factory struct {
	capacity       int
	stringCapacity int
	binaryCapacity int
}

// NewFactory returns a Factory sized for capacity rows, estimating 32
// bytes per string value and 64 bytes per binary value — the same
// estimate hdbconnect-arrow's BuilderFactory uses.
func NewFactory(capacity int) *Factory {
	return &Factory{
		capacity:       capacity,
		stringCapacity: capacity * 32,
		binaryCapacity: capacity * 64,
	}
}

// WithStringCapacity overrides the estimated string data capacity.
func (f *Factory) WithStringCapacity(capacity int) *Factory {
	f.stringCapacity = capacity
	return f
}

// WithBinaryCapacity overrides the estimated binary data capacity.
func (f *Factory) WithBinaryCapacity(capacity int) *Factory {
	f.binaryCapacity = capacity
	return f
}

// Create returns a new Builder for ct. ct must already satisfy Validate;
// Create does not re-validate precision/scale/fixed length.
func (f *Factory) Create(ct arrowtype.ColumnType) Builder {
	switch ct.Kind {
	case arrowtype.KindUint8:
		return NewUint8Builder(f.capacity)
	case arrowtype.KindInt16:
		return NewInt16Builder(f.capacity)
	case arrowtype.KindInt32:
		return NewInt32Builder(f.capacity)
	case arrowtype.KindInt64:
		return NewInt64Builder(f.capacity)
	case arrowtype.KindFloat32:
		return NewFloat32Builder(f.capacity)
	case arrowtype.KindFloat64:
		return NewFloat64Builder(f.capacity)
	case arrowtype.KindDecimal:
		return NewDecimalBuilder(f.capacity, ct.Precision, ct.Scale)
	case arrowtype.KindUtf8:
		return NewStringBuilder(f.capacity, f.stringCapacity)
	case arrowtype.KindLargeUtf8:
		return NewLargeStringBuilder(f.capacity, f.stringCapacity)
	case arrowtype.KindBinary:
		return NewBinaryBuilder(f.capacity, f.binaryCapacity)
	case arrowtype.KindLargeBinary:
		return NewLargeBinaryBuilder(f.capacity, f.binaryCapacity)
	case arrowtype.KindFixedSizeBinary:
		return NewFixedSizeBinaryBuilder(f.capacity, ct.FixedLen)
	case arrowtype.KindDate32:
		return NewDate32Builder(f.capacity)
	case arrowtype.KindTime64Ns:
		return NewTime64NsBuilder(f.capacity)
	case arrowtype.KindTimestampNs:
		return NewTimestampNsBuilder(f.capacity)
	case arrowtype.KindBoolean:
		return NewBooleanBuilder(f.capacity)
	default:
		return NewStringBuilder(f.capacity, f.stringCapacity)
	}
}

// CreateForSchema returns one Builder per column, in column order.
func (f *Factory) CreateForSchema(cols []arrowtype.ColumnType) []Builder {
	builders := make([]Builder, len(cols))
	for i, ct := range cols {
		builders[i] = f.Create(ct)
	}
	return builders
}
