package gateway

import (
	"context"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// Guard wraps every tool's database access with the two checks that must
// apply no matter which tool is calling: a per-call timeout and schema
// authorization. Grounded on security/query_guard.rs's QueryGuard, which
// bundles the same two concerns (timeout, schema_filter) for the
// original's tool_router.
type Guard struct {
	Timeout      time.Duration
	SchemaFilter sqlsafety.SchemaFilter
}

// NewGuard constructs a Guard from a resolved timeout and schema filter.
func NewGuard(timeout time.Duration, filter sqlsafety.SchemaFilter) *Guard {
	return &Guard{Timeout: timeout, SchemaFilter: filter}
}

// ValidateSchema returns a KindSchemaAccess error if schema is not
// permitted by the guard's filter. A nil schema (the caller's current
// schema) is always allowed, since the filter cannot evaluate a schema
// name it was never given.
func (g *Guard) ValidateSchema(schema *string) error {
	if schema == nil {
		return nil
	}
	return g.SchemaFilter.Validate(*schema)
}

// Execute runs fn under the guard's timeout, translating a context
// deadline into a KindTimeout error the way execute_with_error's
// is_timeout() classification does in the original.
func Execute[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	callCtx := ctx
	var cancel context.CancelFunc
	if g.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	result, err := fn(callCtx)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return zero, errs.Wrap(errs.KindTimeout, "query exceeded configured timeout", err)
		}
		return zero, err
	}
	return result, nil
}
