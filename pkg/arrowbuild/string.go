package arrowbuild

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// StringBuilder wraps array.StringBuilder for VARCHAR/NVARCHAR/CHAR/
// ALPHANUM columns. Unlike the original hdbconnect-arrow implementation,
// which falls back to a debug-formatted string for non-string input, this
// builder fails closed: a non-string value is a value-conversion error.
type StringBuilder struct {
	b   *array.StringBuilder
	len int
}

func NewStringBuilder(capacity, dataCapacity int) *StringBuilder {
	b := array.NewStringBuilder(defaultAllocator)
	b.Reserve(capacity)
	b.ReserveData(dataCapacity)
	return &StringBuilder{b: b}
}

func (s *StringBuilder) AppendValue(value any) error {
	str, ok := value.(string)
	if !ok {
		return valueConversionErr("utf8", fmt.Sprintf("cannot convert %T to string column", value))
	}
	s.b.Append(str)
	s.len++
	return nil
}

func (s *StringBuilder) AppendNull()       { s.b.AppendNull(); s.len++ }
func (s *StringBuilder) Finish() arrow.Array { s.len = 0; return s.b.NewArray() }
func (s *StringBuilder) Reset()            { s.b.NewArray().Release(); s.len = 0 }
func (s *StringBuilder) Len() int          { return s.len }

// LargeStringBuilder wraps array.LargeStringBuilder for CLOB/NCLOB/TEXT
// columns. Same fail-closed rule as StringBuilder.
type LargeStringBuilder struct {
	b   *array.LargeStringBuilder
	len int
}

func NewLargeStringBuilder(capacity, dataCapacity int) *LargeStringBuilder {
	b := array.NewLargeStringBuilder(defaultAllocator)
	b.Reserve(capacity)
	b.ReserveData(dataCapacity)
	return &LargeStringBuilder{b: b}
}

func (s *LargeStringBuilder) AppendValue(value any) error {
	str, ok := value.(string)
	if !ok {
		return valueConversionErr("large_utf8", fmt.Sprintf("cannot convert %T to string column", value))
	}
	s.b.Append(str)
	s.len++
	return nil
}

func (s *LargeStringBuilder) AppendNull()       { s.b.AppendNull(); s.len++ }
func (s *LargeStringBuilder) Finish() arrow.Array { s.len = 0; return s.b.NewArray() }
func (s *LargeStringBuilder) Reset()            { s.b.NewArray().Release(); s.len = 0 }
func (s *LargeStringBuilder) Len() int          { return s.len }

// BinaryBuilder wraps array.BinaryBuilder for BINARY/VARBINARY columns, and
// (per spec's spatial non-goal) GEOMETRY/POINT columns preserved as WKB.
type BinaryBuilder struct {
	b   *array.BinaryBuilder
	len int
}

func NewBinaryBuilder(capacity, dataCapacity int) *BinaryBuilder {
	b := array.NewBinaryBuilder(defaultAllocator, arrow.BinaryTypes.Binary)
	b.Reserve(capacity)
	b.ReserveData(dataCapacity)
	return &BinaryBuilder{b: b}
}

func (s *BinaryBuilder) AppendValue(value any) error {
	buf, ok := value.([]byte)
	if !ok {
		return valueConversionErr("binary", fmt.Sprintf("cannot convert %T to binary column", value))
	}
	s.b.Append(buf)
	s.len++
	return nil
}

func (s *BinaryBuilder) AppendNull()       { s.b.AppendNull(); s.len++ }
func (s *BinaryBuilder) Finish() arrow.Array { s.len = 0; return s.b.NewArray() }
func (s *BinaryBuilder) Reset()            { s.b.NewArray().Release(); s.len = 0 }
func (s *BinaryBuilder) Len() int          { return s.len }

// LargeBinaryBuilder wraps array.BinaryBuilder configured for the
// LargeBinary type, for BLOB columns.
type LargeBinaryBuilder struct {
	b   *array.BinaryBuilder
	len int
}

func NewLargeBinaryBuilder(capacity, dataCapacity int) *LargeBinaryBuilder {
	b := array.NewBinaryBuilder(defaultAllocator, arrow.BinaryTypes.LargeBinary)
	b.Reserve(capacity)
	b.ReserveData(dataCapacity)
	return &LargeBinaryBuilder{b: b}
}

func (s *LargeBinaryBuilder) AppendValue(value any) error {
	buf, ok := value.([]byte)
	if !ok {
		return valueConversionErr("large_binary", fmt.Sprintf("cannot convert %T to binary column", value))
	}
	s.b.Append(buf)
	s.len++
	return nil
}

func (s *LargeBinaryBuilder) AppendNull()       { s.b.AppendNull(); s.len++ }
func (s *LargeBinaryBuilder) Finish() arrow.Array { s.len = 0; return s.b.NewArray() }
func (s *LargeBinaryBuilder) Reset()            { s.b.NewArray().Release(); s.len = 0 }
func (s *LargeBinaryBuilder) Len() int          { return s.len }

// FixedSizeBinaryBuilder wraps array.FixedSizeBinaryBuilder for FIXED8/
// FIXED12/FIXED16 columns. AppendValue rejects any byte slice whose length
// does not equal byteWidth.
type FixedSizeBinaryBuilder struct {
	b         *array.FixedSizeBinaryBuilder
	byteWidth int
	len       int
}

func NewFixedSizeBinaryBuilder(capacity, byteWidth int) *FixedSizeBinaryBuilder {
	b := array.NewFixedSizeBinaryBuilder(defaultAllocator, &arrow.FixedSizeBinaryType{ByteWidth: byteWidth})
	b.Reserve(capacity)
	return &FixedSizeBinaryBuilder{b: b, byteWidth: byteWidth}
}

func (s *FixedSizeBinaryBuilder) AppendValue(value any) error {
	buf, ok := value.([]byte)
	if !ok {
		return valueConversionErr("fixed_size_binary", fmt.Sprintf("cannot convert %T to fixed-size binary column", value))
	}
	if len(buf) != s.byteWidth {
		return valueConversionErr("fixed_size_binary", fmt.Sprintf("expected %d bytes, got %d", s.byteWidth, len(buf)))
	}
	s.b.Append(buf)
	s.len++
	return nil
}

func (s *FixedSizeBinaryBuilder) AppendNull()       { s.b.AppendNull(); s.len++ }
func (s *FixedSizeBinaryBuilder) Finish() arrow.Array { s.len = 0; return s.b.NewArray() }
func (s *FixedSizeBinaryBuilder) Reset()            { s.b.NewArray().Release(); s.len = 0 }
func (s *FixedSizeBinaryBuilder) Len() int          { return s.len }
