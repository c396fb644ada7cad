package stream

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/sync/errgroup"

	"github.com/SAP/hdbconnect-mcp/pkg/batch"
)

// cooperativeChannelBuffer bounds the number of in-flight batches between
// the producer goroutine and the consumer, providing backpressure so a
// slow consumer doesn't let the producer buffer an unbounded number of
// batches in memory.
const cooperativeChannelBuffer = 4

type cooperativeResult struct {
	record arrow.Record
	err    error
}

// CooperativeReader produces batches on a background goroutine and hands
// them to the caller through a bounded channel, so the producer can keep
// fetching and converting rows while the consumer processes the previous
// batch. Backpressure comes from the channel's fixed capacity of 4
// batches: once full, the producer blocks until the consumer drains one.
type CooperativeReader struct {
	schema  *arrow.Schema
	ch      chan cooperativeResult
	cancel  context.CancelFunc
	group   *errgroup.Group
	guard   iterationGuard
	current arrow.Record
	err     error
	done    bool
}

// NewCooperativeReader starts a background goroutine that reads from src
// and feeds processor, sending completed batches to the channel that
// Next drains. The goroutine stops early if ctx is cancelled.
func NewCooperativeReader(ctx context.Context, src RowSource, processor *batch.Processor) *CooperativeReader {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)

	r := &CooperativeReader{
		schema: processor.Schema(),
		ch:     make(chan cooperativeResult, cooperativeChannelBuffer),
		cancel: cancel,
		group:  group,
	}

	group.Go(func() error {
		defer close(r.ch)
		for {
			row, more, err := src.Next()
			if err != nil {
				select {
				case r.ch <- cooperativeResult{err: err}:
				case <-gctx.Done():
				}
				return nil
			}
			if !more {
				rec, ferr := processor.Flush()
				if ferr != nil {
					select {
					case r.ch <- cooperativeResult{err: ferr}:
					case <-gctx.Done():
					}
					return nil
				}
				if rec != nil {
					select {
					case r.ch <- cooperativeResult{record: rec}:
					case <-gctx.Done():
					}
				}
				return nil
			}

			rec, perr := processor.ProcessRow(row)
			if perr != nil {
				select {
				case r.ch <- cooperativeResult{err: perr}:
				case <-gctx.Done():
				}
				return nil
			}
			if rec != nil {
				select {
				case r.ch <- cooperativeResult{record: rec}:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	return r
}

// Schema returns the schema of the batches this reader produces.
func (r *CooperativeReader) Schema() *arrow.Schema { return r.schema }

// Next blocks until the next batch arrives from the producer goroutine,
// the producer finishes, or an error occurs.
func (r *CooperativeReader) Next() bool {
	r.guard.begin()
	defer r.guard.end()

	if r.done {
		return false
	}

	result, ok := <-r.ch
	if !ok {
		r.done = true
		return false
	}
	if result.err != nil {
		r.err = result.err
		r.done = true
		return false
	}
	r.current = result.record
	return true
}

// Record returns the batch produced by the most recent successful Next.
func (r *CooperativeReader) Record() arrow.Record { return r.current }

// Err returns the first error encountered, if any.
func (r *CooperativeReader) Err() error { return r.err }

// Close cancels the background goroutine and waits for it to exit. Callers
// that stop consuming before exhaustion must call Close to avoid leaking
// the producer goroutine.
func (r *CooperativeReader) Close() error {
	r.cancel()
	return r.group.Wait()
}

func (r *CooperativeReader) Retain()  {}
func (r *CooperativeReader) Release() { _ = r.Close() }
