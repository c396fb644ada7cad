package arrowbuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// daysFromYMD computes days since the Unix epoch (1970-01-01) for a
// proleptic Gregorian date, using Howard Hinnant's days_from_civil
// algorithm (https://howardhinnant.github.io/date_algorithms.html).
func daysFromYMD(year int, month, day uint32) int32 {
	y := year
	if month <= 2 {
		y--
	}
	var era int
	if y >= 0 {
		era = y / 400
	} else {
		era = (y - 399) / 400
	}
	yoe := uint32(y - era*400)
	var mAdj uint32
	if month > 2 {
		mAdj = month - 3
	} else {
		mAdj = month + 9
	}
	doy := (153*mAdj+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return int32(era*146097 + int(doe) - 719468)
}

func parseDateString(s string) (int32, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, valueConversionErr("date32", fmt.Sprintf("invalid date format: %s", s))
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, valueConversionErr("date32", fmt.Sprintf("invalid year in: %s", s))
	}
	month, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, valueConversionErr("date32", fmt.Sprintf("invalid month in: %s", s))
	}
	day, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, valueConversionErr("date32", fmt.Sprintf("invalid day in: %s", s))
	}
	return daysFromYMD(year, uint32(month), uint32(day)), nil
}

func parseTimeString(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, valueConversionErr("time64", fmt.Sprintf("invalid time format: %s", s))
	}
	hour, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, valueConversionErr("time64", fmt.Sprintf("invalid hour in: %s", s))
	}
	minute, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, valueConversionErr("time64", fmt.Sprintf("invalid minute in: %s", s))
	}
	second, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, valueConversionErr("time64", fmt.Sprintf("invalid second in: %s", s))
	}
	total := hour*3600 + minute*60 + second
	return total * 1_000_000_000, nil
}

// parseDateTimeString parses "YYYY-MM-DDTHH:MM:SS[.fraction]" into
// nanoseconds since the Unix epoch. Fractional digits beyond 9 are
// truncated; fewer than 9 are right-padded with zeros, so ".1" is
// 100,000,000ns.
func parseDateTimeString(s string) (int64, error) {
	parts := strings.SplitN(s, "T", 2)
	if len(parts) != 2 {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid datetime format: %s", s))
	}

	dateParts := strings.Split(parts[0], "-")
	if len(dateParts) != 3 {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid date in: %s", s))
	}
	year, err := strconv.Atoi(dateParts[0])
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid year in: %s", s))
	}
	month, err := strconv.ParseUint(dateParts[1], 10, 32)
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid month in: %s", s))
	}
	day, err := strconv.ParseUint(dateParts[2], 10, 32)
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid day in: %s", s))
	}

	timeStr := parts[1]
	var timePart string
	var fracNanos int64
	if dot := strings.IndexByte(timeStr, '.'); dot >= 0 {
		timePart = timeStr[:dot]
		fracStr := timeStr[dot+1:]
		padded := fracStr + strings.Repeat("0", 9)
		frac, err := strconv.ParseInt(padded[:9], 10, 64)
		if err == nil {
			fracNanos = frac
		}
	} else {
		timePart = timeStr
	}

	timeParts := strings.Split(timePart, ":")
	if len(timeParts) != 3 {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid time in: %s", s))
	}
	hour, err := strconv.ParseInt(timeParts[0], 10, 64)
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid hour in: %s", s))
	}
	minute, err := strconv.ParseInt(timeParts[1], 10, 64)
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid minute in: %s", s))
	}
	second, err := strconv.ParseInt(timeParts[2], 10, 64)
	if err != nil {
		return 0, valueConversionErr("timestamp_ns", fmt.Sprintf("invalid second in: %s", s))
	}

	days := daysFromYMD(year, uint32(month), uint32(day))
	dayNanos := int64(days) * 86400 * 1_000_000_000
	timeNanos := (hour*3600 + minute*60 + second) * 1_000_000_000
	return dayNanos + timeNanos + fracNanos, nil
}

func asTemporalString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// Date32Builder wraps array.Date32Builder for HANA DAYDATE columns.
type Date32Builder struct {
	b   *array.Date32Builder
	len int
}

func NewDate32Builder(capacity int) *Date32Builder {
	b := array.NewDate32Builder(defaultAllocator)
	b.Reserve(capacity)
	return &Date32Builder{b: b}
}

func (d *Date32Builder) AppendValue(value any) error {
	s, ok := asTemporalString(value)
	if !ok {
		return valueConversionErr("date32", fmt.Sprintf("expected date type, got %T", value))
	}
	days, err := parseDateString(s)
	if err != nil {
		return err
	}
	d.b.Append(arrow.Date32(days))
	d.len++
	return nil
}

func (d *Date32Builder) AppendNull()       { d.b.AppendNull(); d.len++ }
func (d *Date32Builder) Finish() arrow.Array { d.len = 0; return d.b.NewArray() }
func (d *Date32Builder) Reset()            { d.b.NewArray().Release(); d.len = 0 }
func (d *Date32Builder) Len() int          { return d.len }

// Time64NsBuilder wraps array.Time64Builder(ns) for HANA SECONDTIME columns.
type Time64NsBuilder struct {
	b   *array.Time64Builder
	len int
}

func NewTime64NsBuilder(capacity int) *Time64NsBuilder {
	b := array.NewTime64Builder(defaultAllocator, &arrow.Time64Type{Unit: arrow.Nanosecond})
	b.Reserve(capacity)
	return &Time64NsBuilder{b: b}
}

func (t *Time64NsBuilder) AppendValue(value any) error {
	s, ok := asTemporalString(value)
	if !ok {
		return valueConversionErr("time64_ns", fmt.Sprintf("expected time type, got %T", value))
	}
	nanos, err := parseTimeString(s)
	if err != nil {
		return err
	}
	t.b.Append(arrow.Time64(nanos))
	t.len++
	return nil
}

func (t *Time64NsBuilder) AppendNull()       { t.b.AppendNull(); t.len++ }
func (t *Time64NsBuilder) Finish() arrow.Array { t.len = 0; return t.b.NewArray() }
func (t *Time64NsBuilder) Reset()            { t.b.NewArray().Release(); t.len = 0 }
func (t *Time64NsBuilder) Len() int          { return t.len }

// TimestampNsBuilder wraps array.TimestampBuilder(ns) for HANA LONGDATE and
// SECONDDATE columns.
type TimestampNsBuilder struct {
	b   *array.TimestampBuilder
	len int
}

func NewTimestampNsBuilder(capacity int) *TimestampNsBuilder {
	b := array.NewTimestampBuilder(defaultAllocator, &arrow.TimestampType{Unit: arrow.Nanosecond})
	b.Reserve(capacity)
	return &TimestampNsBuilder{b: b}
}

func (t *TimestampNsBuilder) AppendValue(value any) error {
	s, ok := asTemporalString(value)
	if !ok {
		return valueConversionErr("timestamp_ns", fmt.Sprintf("expected timestamp type, got %T", value))
	}
	nanos, err := parseDateTimeString(s)
	if err != nil {
		return err
	}
	t.b.Append(arrow.Timestamp(nanos))
	t.len++
	return nil
}

func (t *TimestampNsBuilder) AppendNull()       { t.b.AppendNull(); t.len++ }
func (t *TimestampNsBuilder) Finish() arrow.Array { t.len = 0; return t.b.NewArray() }
func (t *TimestampNsBuilder) Reset()            { t.b.NewArray().Release(); t.len = 0 }
func (t *TimestampNsBuilder) Len() int          { return t.len }
