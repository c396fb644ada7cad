package arrowbuild

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Uint8Builder wraps array.Uint8Builder for HANA TINYINT columns.
type Uint8Builder struct {
	b   *array.Uint8Builder
	len int
}

// NewUint8Builder allocates a TINYINT builder pre-sized to capacity rows.
func NewUint8Builder(capacity int) *Uint8Builder {
	b := array.NewUint8Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Uint8Builder{b: b}
}

func (u *Uint8Builder) AppendValue(value any) error {
	v, err := toUint8(value)
	if err != nil {
		return err
	}
	u.b.Append(v)
	u.len++
	return nil
}

func (u *Uint8Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Uint8Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Uint8Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Uint8Builder) Len() int          { return u.len }

func toUint8(value any) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case int8:
		if v < 0 {
			return 0, valueConversionErr("uint8", fmt.Sprintf("negative value %d for TINYINT", v))
		}
		return uint8(v), nil
	case int16:
		if v < 0 || v > 255 {
			return 0, valueConversionErr("uint8", fmt.Sprintf("value %d out of range for TINYINT", v))
		}
		return uint8(v), nil
	case int32:
		if v < 0 || v > 255 {
			return 0, valueConversionErr("uint8", fmt.Sprintf("value %d out of range for TINYINT", v))
		}
		return uint8(v), nil
	case int64:
		if v < 0 || v > 255 {
			return 0, valueConversionErr("uint8", fmt.Sprintf("value %d out of range for TINYINT", v))
		}
		return uint8(v), nil
	case int:
		if v < 0 || v > 255 {
			return 0, valueConversionErr("uint8", fmt.Sprintf("value %d out of range for TINYINT", v))
		}
		return uint8(v), nil
	default:
		return 0, valueConversionErr("uint8", fmt.Sprintf("cannot convert %T to TINYINT", value))
	}
}

// Int16Builder wraps array.Int16Builder for HANA SMALLINT columns.
type Int16Builder struct {
	b   *array.Int16Builder
	len int
}

func NewInt16Builder(capacity int) *Int16Builder {
	b := array.NewInt16Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Int16Builder{b: b}
}

func (u *Int16Builder) AppendValue(value any) error {
	v, err := toInt64(value, "int16")
	if err != nil {
		return err
	}
	if v < -32768 || v > 32767 {
		return valueConversionErr("int16", fmt.Sprintf("value %d out of range for SMALLINT", v))
	}
	u.b.Append(int16(v))
	u.len++
	return nil
}

func (u *Int16Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Int16Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Int16Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Int16Builder) Len() int          { return u.len }

// Int32Builder wraps array.Int32Builder for HANA INTEGER columns.
type Int32Builder struct {
	b   *array.Int32Builder
	len int
}

func NewInt32Builder(capacity int) *Int32Builder {
	b := array.NewInt32Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Int32Builder{b: b}
}

func (u *Int32Builder) AppendValue(value any) error {
	v, err := toInt64(value, "int32")
	if err != nil {
		return err
	}
	if v < -2147483648 || v > 2147483647 {
		return valueConversionErr("int32", fmt.Sprintf("value %d out of range for INTEGER", v))
	}
	u.b.Append(int32(v))
	u.len++
	return nil
}

func (u *Int32Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Int32Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Int32Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Int32Builder) Len() int          { return u.len }

// Int64Builder wraps array.Int64Builder for HANA BIGINT columns.
type Int64Builder struct {
	b   *array.Int64Builder
	len int
}

func NewInt64Builder(capacity int) *Int64Builder {
	b := array.NewInt64Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Int64Builder{b: b}
}

func (u *Int64Builder) AppendValue(value any) error {
	v, err := toInt64(value, "int64")
	if err != nil {
		return err
	}
	u.b.Append(v)
	u.len++
	return nil
}

func (u *Int64Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Int64Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Int64Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Int64Builder) Len() int          { return u.len }

func toInt64(value any, kind string) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	default:
		return 0, valueConversionErr(kind, fmt.Sprintf("cannot convert %T to %s", value, kind))
	}
}

// Float32Builder wraps array.Float32Builder for HANA REAL columns.
type Float32Builder struct {
	b   *array.Float32Builder
	len int
}

func NewFloat32Builder(capacity int) *Float32Builder {
	b := array.NewFloat32Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Float32Builder{b: b}
}

func (u *Float32Builder) AppendValue(value any) error {
	switch v := value.(type) {
	case float32:
		u.b.Append(v)
	case float64:
		u.b.Append(float32(v))
	default:
		return valueConversionErr("float32", fmt.Sprintf("cannot convert %T to REAL", value))
	}
	u.len++
	return nil
}

func (u *Float32Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Float32Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Float32Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Float32Builder) Len() int          { return u.len }

// Float64Builder wraps array.Float64Builder for HANA DOUBLE columns.
type Float64Builder struct {
	b   *array.Float64Builder
	len int
}

func NewFloat64Builder(capacity int) *Float64Builder {
	b := array.NewFloat64Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Float64Builder{b: b}
}

func (u *Float64Builder) AppendValue(value any) error {
	switch v := value.(type) {
	case float64:
		u.b.Append(v)
	case float32:
		u.b.Append(float64(v))
	default:
		return valueConversionErr("float64", fmt.Sprintf("cannot convert %T to DOUBLE", value))
	}
	u.len++
	return nil
}

func (u *Float64Builder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *Float64Builder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *Float64Builder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *Float64Builder) Len() int          { return u.len }

// BooleanBuilder wraps array.BooleanBuilder for HANA BOOLEAN columns.
type BooleanBuilder struct {
	b   *array.BooleanBuilder
	len int
}

func NewBooleanBuilder(capacity int) *BooleanBuilder {
	b := array.NewBooleanBuilder(defaultAllocator)
	b.Reserve(capacity)
	return &BooleanBuilder{b: b}
}

func (u *BooleanBuilder) AppendValue(value any) error {
	v, ok := value.(bool)
	if !ok {
		return valueConversionErr("boolean", fmt.Sprintf("cannot convert %T to BOOLEAN", value))
	}
	u.b.Append(v)
	u.len++
	return nil
}

func (u *BooleanBuilder) AppendNull()       { u.b.AppendNull(); u.len++ }
func (u *BooleanBuilder) Finish() arrow.Array { u.len = 0; return u.b.NewArray() }
func (u *BooleanBuilder) Reset()            { u.b.NewArray().Release(); u.len = 0 }
func (u *BooleanBuilder) Len() int          { return u.len }
