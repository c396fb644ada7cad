package config

// DefaultMaxResultSets and DefaultMaxRowsPerResultSet cap what a single
// stored-procedure call may hand back.
const (
	DefaultMaxResultSets       = 10
	DefaultMaxRowsPerResultSet = 1000
)

// ProcedureConfig governs stored-procedure execution.
//
// When AllowProcedures is true, a procedure can perform DML internally
// regardless of DmlConfig.AllowDML — fully preventing write access
// requires both flags to be false.
type ProcedureConfig struct {
	AllowProcedures     bool
	RequireConfirmation bool
	MaxResultSets       *uint32
	MaxRowsPerResultSet *uint32
}

func defaultProcedureConfig() ProcedureConfig {
	maxResultSets := uint32(DefaultMaxResultSets)
	maxRows := uint32(DefaultMaxRowsPerResultSet)
	return ProcedureConfig{
		AllowProcedures:     false,
		RequireConfirmation: true,
		MaxResultSets:       &maxResultSets,
		MaxRowsPerResultSet: &maxRows,
	}
}
