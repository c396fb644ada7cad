// Package stream turns a live HANA result-set iterator into an Arrow
// array.RecordReader, buffering rows into batches via pkg/batch.Processor.
// Two variants are provided: a blocking reader that pulls rows and
// processes them synchronously on the caller's goroutine, and a
// cooperative reader that produces batches on a background goroutine and
// hands them to the caller through a bounded channel.
//
// Grounded on hdbconnect-py's reader::wrapper module: StreamingReader
// (blocking, sequential, single-owner) and AsyncStreamingReader
// (channel-backed, bounded backpressure of 4 batches).
package stream

import (
	"fmt"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/SAP/hdbconnect-mcp/pkg/batch"
)

// RowSource yields result-set rows one at a time. Next returns
// (row, true, nil) while rows remain, (nil, false, nil) once exhausted,
// and (nil, false, err) on a driver error.
type RowSource interface {
	Next() (batch.Row, bool, error)
}

// iterationGuard panics if Next is re-entered while a previous call on the
// same reader is still in flight, mirroring the reentrancy check
// hdbconnect-py's StreamingReader applies to the Arrow C Stream protocol's
// sequential-access requirement.
type iterationGuard struct {
	iterating atomic.Bool
}

func (g *iterationGuard) begin() {
	if g.iterating.Swap(true) {
		panic("stream: concurrent Next() call detected; RecordReader access must be sequential")
	}
}

func (g *iterationGuard) end() {
	g.iterating.Store(false)
}

// BlockingReader pulls rows from src synchronously and feeds a
// batch.Processor until it yields a full or final batch. It implements
// arrow's array.RecordReader-shaped contract (Next/Record/Err/Schema).
type BlockingReader struct {
	src       RowSource
	processor *batch.Processor
	guard     iterationGuard
	current   arrow.Record
	err       error
	exhausted bool
}

// NewBlockingReader creates a reader over src, buffering into batches via
// processor.
func NewBlockingReader(src RowSource, processor *batch.Processor) *BlockingReader {
	return &BlockingReader{src: src, processor: processor}
}

// Schema returns the schema of the batches this reader produces.
func (r *BlockingReader) Schema() *arrow.Schema { return r.processor.Schema() }

// Next advances to the next batch, returning false once the source is
// exhausted and all buffered rows have been flushed. Check Err after Next
// returns false to distinguish natural exhaustion from a driver error.
func (r *BlockingReader) Next() bool {
	r.guard.begin()
	defer r.guard.end()

	if r.exhausted {
		return false
	}

	for {
		row, more, err := r.src.Next()
		if err != nil {
			r.err = fmt.Errorf("stream: row source failed: %w", err)
			r.exhausted = true
			return false
		}
		if !more {
			rec, ferr := r.processor.Flush()
			if ferr != nil {
				r.err = ferr
			}
			r.exhausted = true
			if rec != nil {
				r.current = rec
				return true
			}
			return false
		}

		rec, perr := r.processor.ProcessRow(row)
		if perr != nil {
			r.err = perr
			r.exhausted = true
			return false
		}
		if rec != nil {
			r.current = rec
			return true
		}
	}
}

// Record returns the batch produced by the most recent successful Next.
func (r *BlockingReader) Record() arrow.Record { return r.current }

// Err returns the first error encountered, if any.
func (r *BlockingReader) Err() error { return r.err }

// Retain and Release satisfy arrow's shared-array-reference convention;
// BlockingReader owns no Arrow memory directly (batches are released by
// the caller), so both are no-ops.
func (r *BlockingReader) Retain()  {}
func (r *BlockingReader) Release() {}
