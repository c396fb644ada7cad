// Package arrowtype maps SAP HANA wire type identifiers onto the closed
// logical column type set used throughout the Arrow conversion plane, and
// classifies logical types for the rest of the pipeline (builders, batch
// processor).
//
// The mapping table is the authoritative one from the original
// hdbconnect-arrow schema mapper: precision preservation for decimals,
// "large" Arrow variants for LOB columns, and a safe Utf8 fallback for any
// HANA type id this module doesn't otherwise recognize.
package arrowtype

import "fmt"

// HanaTypeID identifies a HANA SQL column type as reported by result-set
// metadata. Values are this package's own sequential numbering (starting
// at 1), not the hdbconnect/go-hdb wire type codes.
type HanaTypeID int

const (
	TypeTinyInt HanaTypeID = iota + 1
	TypeSmallInt
	TypeInt
	TypeBigInt
	TypeReal
	TypeDouble
	TypeDecimal
	TypeChar
	TypeVarChar
	TypeNChar
	TypeNVarChar
	TypeShortText
	TypeAlphanum
	TypeString
	TypeBinary
	TypeVarBinary
	TypeClob
	TypeNClob
	TypeText
	TypeBlob
	TypeDayDate
	TypeSecondTime
	TypeSecondDate
	TypeLongDate
	TypeBoolean
	TypeFixed8
	TypeFixed12
	TypeFixed16
	TypeGeometry
	TypePoint
)

// Kind is the closed variant set of logical column types (spec.md §3).
type Kind int

const (
	KindUint8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindUtf8
	KindLargeUtf8
	KindBinary
	KindLargeBinary
	KindFixedSizeBinary
	KindBoolean
	KindDate32
	KindTime64Ns
	KindTimestampNs
)

// ColumnType is a fully resolved logical column type: Kind plus the
// decimal precision/scale or fixed-size-binary length parameters that
// apply to it.
type ColumnType struct {
	Kind      Kind
	Precision uint8 // decimal only: 1..=38
	Scale     uint8 // decimal only: 0..=Precision
	FixedLen  int   // fixed-size-binary only: > 0
}

func (c ColumnType) String() string {
	switch c.Kind {
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)", c.Precision, c.Scale)
	case KindFixedSizeBinary:
		return fmt.Sprintf("fixed_size_binary(%d)", c.FixedLen)
	default:
		return kindNames[c.Kind]
	}
}

var kindNames = map[Kind]string{
	KindUint8:           "uint8",
	KindInt16:           "int16",
	KindInt32:           "int32",
	KindInt64:           "int64",
	KindFloat32:         "float32",
	KindFloat64:         "float64",
	KindUtf8:            "utf8",
	KindLargeUtf8:       "large_utf8",
	KindBinary:          "binary",
	KindLargeBinary:     "large_binary",
	KindFixedSizeBinary: "fixed_size_binary",
	KindBoolean:         "boolean",
	KindDate32:          "date32",
	KindTime64Ns:        "time64[ns]",
	KindTimestampNs:     "timestamp[ns]",
}

// ColumnTypeFor maps a HANA type id (plus precision/scale, used only for
// DECIMAL) to its logical column type. The mapping is total: an
// unrecognized type id falls back to Utf8.
func ColumnTypeFor(typeID HanaTypeID, precision, scale int) ColumnType {
	switch typeID {
	case TypeTinyInt:
		return ColumnType{Kind: KindUint8}
	case TypeSmallInt:
		return ColumnType{Kind: KindInt16}
	case TypeInt:
		return ColumnType{Kind: KindInt32}
	case TypeBigInt:
		return ColumnType{Kind: KindInt64}
	case TypeReal:
		return ColumnType{Kind: KindFloat32}
	case TypeDouble:
		return ColumnType{Kind: KindFloat64}
	case TypeDecimal:
		p := precision
		if p <= 0 {
			p = 38
		}
		if p > 38 {
			p = 38
		}
		s := scale
		if s < 0 {
			s = 0
		}
		return ColumnType{Kind: KindDecimal, Precision: uint8(p), Scale: uint8(s)}
	case TypeChar, TypeVarChar, TypeNChar, TypeNVarChar, TypeShortText, TypeAlphanum, TypeString:
		return ColumnType{Kind: KindUtf8}
	case TypeBinary, TypeVarBinary:
		return ColumnType{Kind: KindBinary}
	case TypeClob, TypeNClob, TypeText:
		return ColumnType{Kind: KindLargeUtf8}
	case TypeBlob:
		return ColumnType{Kind: KindLargeBinary}
	case TypeDayDate:
		return ColumnType{Kind: KindDate32}
	case TypeSecondTime:
		return ColumnType{Kind: KindTime64Ns}
	case TypeSecondDate, TypeLongDate:
		return ColumnType{Kind: KindTimestampNs}
	case TypeBoolean:
		return ColumnType{Kind: KindBoolean}
	case TypeFixed8:
		return ColumnType{Kind: KindFixedSizeBinary, FixedLen: 8}
	case TypeFixed12:
		return ColumnType{Kind: KindFixedSizeBinary, FixedLen: 12}
	case TypeFixed16:
		return ColumnType{Kind: KindFixedSizeBinary, FixedLen: 16}
	case TypeGeometry, TypePoint:
		// Spatial types are preserved as opaque well-known-binary (spec
		// non-goal: no spatial type rewrite).
		return ColumnType{Kind: KindBinary}
	default:
		return ColumnType{Kind: KindUtf8}
	}
}

// Category names a HANA type id's broad classification, for diagnostics.
func Category(typeID HanaTypeID) string {
	switch typeID {
	case TypeTinyInt, TypeSmallInt, TypeInt, TypeBigInt, TypeReal, TypeDouble:
		return "Numeric"
	case TypeDecimal:
		return "Decimal"
	case TypeChar, TypeVarChar, TypeNChar, TypeNVarChar, TypeShortText, TypeAlphanum, TypeString:
		return "String"
	case TypeBinary, TypeVarBinary, TypeFixed8, TypeFixed12, TypeFixed16:
		return "Binary"
	case TypeClob, TypeNClob, TypeBlob, TypeText:
		return "LOB"
	case TypeDayDate, TypeSecondTime, TypeSecondDate, TypeLongDate:
		return "Temporal"
	case TypeGeometry, TypePoint:
		return "Spatial"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether typeID is an integer or floating-point type.
func IsNumeric(typeID HanaTypeID) bool { return Category(typeID) == "Numeric" }

// IsDecimal reports whether typeID is the DECIMAL type.
func IsDecimal(typeID HanaTypeID) bool { return typeID == TypeDecimal }

// IsString reports whether typeID is a character string type.
func IsString(typeID HanaTypeID) bool { return Category(typeID) == "String" }

// IsLOB reports whether typeID is a large-object type.
func IsLOB(typeID HanaTypeID) bool { return Category(typeID) == "LOB" }

// IsTemporal reports whether typeID is a date/time/timestamp type.
func IsTemporal(typeID HanaTypeID) bool { return Category(typeID) == "Temporal" }
