package config

import "github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"

// DefaultMaxAffectedRows caps DML blast radius when no explicit limit
// is configured.
const DefaultMaxAffectedRows = 1000

// DmlConfig governs whether, and how, write statements may execute.
// Statement classification (DMLOperation) and the allow-list
// (AllowedOperations) live in pkg/sqlsafety, since they are SQL
// classification concerns this config section merely parameterizes.
type DmlConfig struct {
	AllowDML            bool
	RequireConfirmation bool
	MaxAffectedRows     *uint32
	RequireWhereClause  bool
	AllowedOperations   sqlsafety.AllowedOperations
}

func defaultDmlConfig() DmlConfig {
	limit := uint32(DefaultMaxAffectedRows)
	return DmlConfig{
		AllowDML:            false,
		RequireConfirmation: true,
		MaxAffectedRows:     &limit,
		RequireWhereClause:  true,
		AllowedOperations:   sqlsafety.AllOperations(),
	}
}
