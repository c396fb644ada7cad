package arrowtype

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// ErrInvalidColumnType is returned by Validate when a ColumnType violates
// one of the invariants in spec.md §3 (precision/scale/fixed-length
// bounds).
type ErrInvalidColumnType struct {
	Reason string
}

func (e *ErrInvalidColumnType) Error() string {
	return "invalid column type: " + e.Reason
}

// Validate checks the invariants spec.md §3 places on a ColumnType:
// precision ∈ [1,38]; 0 ≤ scale ≤ precision; fixed-size-binary length > 0.
func (c ColumnType) Validate() error {
	switch c.Kind {
	case KindDecimal:
		if c.Precision < 1 || c.Precision > 38 {
			return &ErrInvalidColumnType{Reason: fmt.Sprintf("precision %d out of range [1,38]", c.Precision)}
		}
		if c.Scale > c.Precision {
			return &ErrInvalidColumnType{Reason: fmt.Sprintf("scale %d exceeds precision %d", c.Scale, c.Precision)}
		}
	case KindFixedSizeBinary:
		if c.FixedLen <= 0 {
			return &ErrInvalidColumnType{Reason: fmt.Sprintf("fixed-size-binary length %d must be > 0", c.FixedLen)}
		}
	}
	return nil
}

// ToArrow converts a validated ColumnType into its Arrow DataType. Callers
// that skip Validate risk a DataType built from out-of-range parameters;
// ToArrow does not re-validate.
func (c ColumnType) ToArrow() arrow.DataType {
	switch c.Kind {
	case KindUint8:
		return arrow.PrimitiveTypes.Uint8
	case KindInt16:
		return arrow.PrimitiveTypes.Int16
	case KindInt32:
		return arrow.PrimitiveTypes.Int32
	case KindInt64:
		return arrow.PrimitiveTypes.Int64
	case KindFloat32:
		return arrow.PrimitiveTypes.Float32
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64
	case KindDecimal:
		return &arrow.Decimal128Type{Precision: int32(c.Precision), Scale: int32(c.Scale)}
	case KindUtf8:
		return arrow.BinaryTypes.String
	case KindLargeUtf8:
		return arrow.BinaryTypes.LargeString
	case KindBinary:
		return arrow.BinaryTypes.Binary
	case KindLargeBinary:
		return arrow.BinaryTypes.LargeBinary
	case KindFixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: c.FixedLen}
	case KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case KindDate32:
		return arrow.FixedWidthTypes.Date32
	case KindTime64Ns:
		return arrow.FixedWidthTypes.Time64ns
	case KindTimestampNs:
		return arrow.FixedWidthTypes.Timestamp_ns
	default:
		return arrow.BinaryTypes.String
	}
}

// Field builds an Arrow schema field from HANA column metadata.
func Field(name string, typeID HanaTypeID, nullable bool, precision, scale int) arrow.Field {
	ct := ColumnTypeFor(typeID, precision, scale)
	return arrow.Field{Name: name, Type: ct.ToArrow(), Nullable: nullable}
}

// SchemaFromMetadata builds an Arrow schema from column metadata tuples,
// mirroring hdbconnect-arrow's SchemaMapper::from_field_metadata.
func SchemaFromMetadata(cols []ColumnMetadata) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = Field(c.Name, c.TypeID, c.Nullable, c.Precision, c.Scale)
	}
	return arrow.NewSchema(fields, nil)
}

// ColumnMetadata is the minimal per-column metadata the gateway needs from
// a live HANA result set to build an Arrow schema.
type ColumnMetadata struct {
	Name      string
	TypeID    HanaTypeID
	Nullable  bool
	Precision int
	Scale     int
}
