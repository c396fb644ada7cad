package config

import (
	"fmt"
	"log/slog"
)

// Validator performs the sanity checks a Builder's own defaulting pass
// cannot: cross-field constraints and checks that are better surfaced as
// a single validation error than threaded through every builder setter.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation, fail-fast at the first
// error, in the same dependency order the teacher's validator uses:
// structural bounds before cross-cutting policy checks.
func (v *Validator) ValidateAll() error {
	if err := v.validateConnection(); err != nil {
		return err
	}
	if err := v.validateDML(); err != nil {
		return err
	}
	if err := v.validateProcedure(); err != nil {
		return err
	}
	if err := v.validateTransport(); err != nil {
		return err
	}

	v.warnProcedureDMLExposure()

	return nil
}

func (v *Validator) validateConnection() error {
	if v.cfg.ConnectionURL == "" {
		return NewValidationError("connection_url", ErrMissingConnectionURL)
	}
	if v.cfg.PoolSize < 1 || v.cfg.PoolSize > 100 {
		return NewValidationError("pool_size", fmt.Errorf("must be between 1 and 100, got %d", v.cfg.PoolSize))
	}
	if v.cfg.QueryTimeout <= 0 {
		return NewValidationError("query_timeout", fmt.Errorf("must be positive, got %v", v.cfg.QueryTimeout))
	}
	if v.cfg.RowLimit != nil && *v.cfg.RowLimit == 0 {
		return NewValidationError("row_limit", fmt.Errorf("must be at least 1 when set"))
	}
	return nil
}

func (v *Validator) validateDML() error {
	dml := v.cfg.DML
	if dml.MaxAffectedRows != nil && *dml.MaxAffectedRows == 0 {
		return NewValidationError("dml.max_affected_rows", fmt.Errorf("must be at least 1 when set"))
	}
	if dml.AllowDML && !dml.AllowedOperations.Insert && !dml.AllowedOperations.Update && !dml.AllowedOperations.Delete {
		return NewValidationError("dml.allowed_operations", fmt.Errorf("DML is enabled but no operation is allowed"))
	}
	return nil
}

func (v *Validator) validateProcedure() error {
	proc := v.cfg.Procedure
	if proc.MaxResultSets != nil && *proc.MaxResultSets == 0 {
		return NewValidationError("procedure.max_result_sets", fmt.Errorf("must be at least 1 when set"))
	}
	if proc.MaxRowsPerResultSet != nil && *proc.MaxRowsPerResultSet == 0 {
		return NewValidationError("procedure.max_rows_per_result_set", fmt.Errorf("must be at least 1 when set"))
	}
	return nil
}

func (v *Validator) validateTransport() error {
	t := v.cfg.Transport
	if t.Mode == TransportHTTP && t.HTTPPort == 0 {
		return NewValidationError("transport.http_port", fmt.Errorf("must be nonzero for HTTP transport"))
	}
	return nil
}

// warnProcedureDMLExposure surfaces the security caveat the original's
// config module only documents: AllowDML=false does not stop a stored
// procedure from performing writes internally once procedures are
// enabled, because the database executes the procedure body with its
// own privileges regardless of this gateway's DML gate.
func (v *Validator) warnProcedureDMLExposure() {
	if v.cfg.Procedure.AllowProcedures && !v.cfg.DML.AllowDML {
		slog.Warn("procedures are enabled while direct DML is disabled; a procedure may still perform writes internally",
			"allow_procedures", true, "allow_dml", false)
	}
}
