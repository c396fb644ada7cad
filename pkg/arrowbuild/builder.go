// Package arrowbuild provides one Arrow array builder per logical column
// type in pkg/arrowtype, plus a factory that selects a builder from a
// resolved ColumnType. It is the Go counterpart of hdbconnect-arrow's
// builders module: each builder accepts driver row values and accumulates
// them into an Arrow array, exposing the same append/finish/reset shape so
// the batch processor (pkg/batch) can drive any column uniformly.
package arrowbuild

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// Builder is the uniform interface every column builder in this package
// implements. It mirrors hdbconnect-arrow's HanaCompatibleBuilder trait.
type Builder interface {
	// AppendValue converts and appends a driver row value. Implementations
	// return a *errs.Error with errs.KindValueConversion on mismatch.
	AppendValue(value any) error

	// AppendNull appends a null entry.
	AppendNull()

	// Finish completes the underlying Arrow builder and returns the array,
	// resetting the builder's internal length counter (not its capacity).
	Finish() arrow.Array

	// Reset discards accumulated values without returning an array. Used at
	// batch boundaries when a partial batch is abandoned.
	Reset()

	// Len returns the number of values (including nulls) appended so far.
	Len() int
}

func valueConversionErr(kind, msg string) error {
	return errs.New(errs.KindValueConversion, msg).WithDetail("target_type", kind)
}

var defaultAllocator = memory.NewGoAllocator()
