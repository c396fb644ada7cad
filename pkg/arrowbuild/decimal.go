package arrowbuild

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// DecimalBuilder wraps array.Decimal128Builder for DECIMAL/SMALLDECIMAL
// columns, scaling driver decimal values to match the resolved Arrow scale.
//
// When a value carries more fractional digits than the column scale, the
// surplus digits are truncated, never rounded, matching the scaling
// behavior of the decimal conversion this type is modeled on.
type DecimalBuilder struct {
	b         *array.Decimal128Builder
	precision uint8
	scale     uint8
	len       int
}

// NewDecimalBuilder allocates a builder for DECIMAL(precision, scale).
// precision and scale must already satisfy ColumnType.Validate.
func NewDecimalBuilder(capacity int, precision, scale uint8) *DecimalBuilder {
	dt := &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}
	b := array.NewDecimal128Builder(defaultAllocator, dt)
	b.Reserve(capacity)
	return &DecimalBuilder{b: b, precision: precision, scale: scale}
}

func (d *DecimalBuilder) AppendValue(value any) error {
	n, err := d.convert(value)
	if err != nil {
		return err
	}
	d.b.Append(n)
	d.len++
	return nil
}

func (d *DecimalBuilder) convert(value any) (decimal128.Num, error) {
	var repr string
	switch v := value.(type) {
	case string:
		repr = v
	case fmt.Stringer:
		repr = v.String()
	default:
		return decimal128.Num{}, valueConversionErr("decimal", fmt.Sprintf("expected decimal-representable value, got %T", value))
	}

	negative := false
	if strings.HasPrefix(repr, "-") {
		negative = true
		repr = repr[1:]
	}

	parts := strings.SplitN(repr, ".", 2)
	var intPart, fracPart string
	switch len(parts) {
	case 1:
		intPart, fracPart = parts[0], ""
	case 2:
		intPart, fracPart = parts[0], parts[1]
	}

	target := int(d.scale)
	fracDigits := len(fracPart)
	var scaledDigits string
	switch {
	case fracDigits < target:
		scaledDigits = intPart + fracPart + strings.Repeat("0", target-fracDigits)
	case fracDigits > target:
		scaledDigits = intPart + fracPart[:target]
	default:
		scaledDigits = intPart + fracPart
	}
	if scaledDigits == "" {
		scaledDigits = "0"
	}

	bi, ok := new(big.Int).SetString(scaledDigits, 10)
	if !ok {
		return decimal128.Num{}, valueConversionErr("decimal", fmt.Sprintf("cannot convert %q to Decimal128(%d,%d)", repr, d.precision, d.scale))
	}
	if negative {
		bi.Neg(bi)
	}

	n := decimal128.FromBigInt(bi)
	if !n.FitsInPrecision(int32(d.precision)) {
		return decimal128.Num{}, valueConversionErr("decimal", fmt.Sprintf("%q overflows Decimal128(%d,%d)", repr, d.precision, d.scale))
	}
	return n, nil
}

func (d *DecimalBuilder) AppendNull()       { d.b.AppendNull(); d.len++ }
func (d *DecimalBuilder) Finish() arrow.Array { d.len = 0; return d.b.NewArray() }
func (d *DecimalBuilder) Reset()            { d.b.NewArray().Release(); d.len = 0 }
func (d *DecimalBuilder) Len() int          { return d.len }
