package sqlsafety

import "strings"

// DMLOperation identifies one of the three write statement kinds this
// gateway may optionally permit.
type DMLOperation int

const (
	DMLInsert DMLOperation = iota
	DMLUpdate
	DMLDelete
)

func (op DMLOperation) String() string {
	switch op {
	case DMLInsert:
		return "INSERT"
	case DMLUpdate:
		return "UPDATE"
	case DMLDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// RequiresWhereClause reports whether op must be guarded by a WHERE
// clause before DmlConfig.RequireWhereClause will allow it through.
func (op DMLOperation) RequiresWhereClause() bool {
	return op == DMLUpdate || op == DMLDelete
}

// DMLOperationFromSQL classifies the leading keyword of sql, ignoring
// leading whitespace and case. The second return is false for
// SELECT/DDL/anything that isn't INSERT/UPDATE/DELETE.
func DMLOperationFromSQL(sql string) (DMLOperation, bool) {
	trimmed := strings.ToUpper(strings.TrimLeft(sql, " \t\r\n"))
	switch {
	case strings.HasPrefix(trimmed, "INSERT"):
		return DMLInsert, true
	case strings.HasPrefix(trimmed, "UPDATE"):
		return DMLUpdate, true
	case strings.HasPrefix(trimmed, "DELETE"):
		return DMLDelete, true
	default:
		return 0, false
	}
}

// AllowedOperations selects which DML statement kinds are permitted
// when DmlConfig.AllowDML is true.
type AllowedOperations struct {
	Insert bool
	Update bool
	Delete bool
}

// AllOperations permits INSERT, UPDATE, and DELETE.
func AllOperations() AllowedOperations { return AllowedOperations{true, true, true} }

// NoOperations permits nothing.
func NoOperations() AllowedOperations { return AllowedOperations{} }

// IsAllowed reports whether op is permitted by this set.
func (a AllowedOperations) IsAllowed(op DMLOperation) bool {
	switch op {
	case DMLInsert:
		return a.Insert
	case DMLUpdate:
		return a.Update
	case DMLDelete:
		return a.Delete
	default:
		return false
	}
}

// ParseAllowedOperations parses a comma-separated, case-insensitive list
// such as "insert,update". Unrecognized tokens are ignored rather than
// rejected, matching the original's substring-containment FromStr.
func ParseAllowedOperations(s string) AllowedOperations {
	u := strings.ToUpper(s)
	return AllowedOperations{
		Insert: strings.Contains(u, "INSERT"),
		Update: strings.Contains(u, "UPDATE"),
		Delete: strings.Contains(u, "DELETE"),
	}
}
