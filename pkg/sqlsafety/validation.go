package sqlsafety

import (
	"fmt"
	"strings"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// writeKeywords indicate a write operation when read-only mode is enforced.
var writeKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE",
	"MERGE", "UPSERT", "CALL", "EXEC", "EXECUTE",
}

// dangerousKeywords are rejected even inside an otherwise-valid DML
// statement, since they have no business appearing in an INSERT/UPDATE/
// DELETE body (including a subquery) and typically signal injection.
var dangerousKeywords = []string{"DROP", "TRUNCATE", "ALTER", "CREATE", "GRANT", "REVOKE"}

// MaxIdentifierLength is HANA's limit on schema/table/procedure names.
const MaxIdentifierLength = 127

// IsValidIdentifier reports whether name is a safe, unquoted HANA
// identifier: 1-127 ASCII alphanumerics, underscore, dollar, or hash,
// not starting with a digit.
func IsValidIdentifier(name string) bool {
	if len(name) == 0 || len(name) > MaxIdentifierLength {
		return false
	}
	first := name[0]
	if first >= '0' && first <= '9' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '$' || c == '#':
		default:
			return false
		}
	}
	return true
}

// ValidateIdentifier returns a KindSQLValidation error naming context if
// name is not a valid identifier.
func ValidateIdentifier(name, context string) error {
	if IsValidIdentifier(name) {
		return nil
	}
	return errs.New(errs.KindSQLValidation, fmt.Sprintf(
		"invalid %s: %q: must be 1-%d alphanumeric characters (a-z, A-Z, 0-9, _, $, #), cannot start with a digit",
		context, name, MaxIdentifierLength)).WithDetail(context, name)
}

// StripSQLComments removes -- line comments and /* */ block comments,
// replacing each with a single space, while leaving single- and
// double-quoted string literals untouched.
func StripSQLComments(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	runes := []rune(sql)
	inSingle, inDouble := false, false

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == '\'' && !inDouble {
			inSingle = !inSingle
			b.WriteRune(c)
			continue
		}
		if c == '"' && !inSingle {
			inDouble = !inDouble
			b.WriteRune(c)
			continue
		}
		if inSingle || inDouble {
			b.WriteRune(c)
			continue
		}

		if c == '-' && i+1 < len(runes) && runes[i+1] == '-' {
			i += 2
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			b.WriteRune(' ')
			continue
		}

		if c == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++ // consume the '/'
			b.WriteRune(' ')
			continue
		}

		b.WriteRune(c)
	}

	return b.String()
}

// ValidateReadOnlySQL rejects any statement (or, split on ';', any
// statement in a batch) that contains a write keyword, descending past
// a leading WITH clause to find the statement's real operation so a CTE
// cannot smuggle a write past the READ-only check.
func ValidateReadOnlySQL(sql string) error {
	cleaned := strings.ToUpper(strings.TrimSpace(StripSQLComments(sql)))
	if cleaned == "" {
		return nil
	}

	for _, stmt := range strings.Split(cleaned, ";") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if containsWriteOperation(trimmed) {
			return errs.New(errs.KindSQLValidation, "DML/DDL operations not allowed in read-only mode")
		}
	}

	return nil
}

func containsWriteOperation(sql string) bool {
	toCheck := sql
	if strings.HasPrefix(sql, "WITH ") || strings.HasPrefix(sql, "WITH\t") {
		toCheck = findMainOperation(sql)
	}

	for _, kw := range writeKeywords {
		if startsWithKeyword(toCheck, kw) {
			return true
		}
		for _, pattern := range deliminatedPatterns(kw) {
			if strings.Contains(sql, pattern) {
				return true
			}
		}
	}

	return false
}

func startsWithKeyword(sql, kw string) bool {
	if !strings.HasPrefix(sql, kw) {
		return false
	}
	if len(sql) == len(kw) {
		return true
	}
	next := sql[len(kw)]
	return next == ' ' || next == '\t' || next == '\n' || next == '('
}

func deliminatedPatterns(kw string) []string {
	return []string{
		" " + kw + " ", " " + kw + "(",
		"\t" + kw + " ", "\t" + kw + "(",
		"\n" + kw + " ", "\n" + kw + "(",
	}
}

// findMainOperation walks past a leading WITH clause's parenthesized CTE
// bodies, tracking paren depth, to locate the statement's real leading
// keyword (SELECT or any write keyword).
func findMainOperation(sql string) string {
	depth := 0
	runes := []rune(sql)

	for pos, c := range runes {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}

		if depth == 0 && (c == ' ' || c == '\t' || c == '\n') {
			remaining := strings.TrimLeft(string(runes[pos+1:]), " \t\n")
			candidates := append(append([]string{}, writeKeywords...), "SELECT")
			for _, kw := range candidates {
				if startsWithKeyword(remaining, kw) {
					return remaining
				}
			}
		}
	}

	return sql
}

// ValidateWhereClause requires a WHERE clause to be present (as a
// whole-word token, after comment stripping) before permitting an
// UPDATE or DELETE through.
func ValidateWhereClause(sql string, op DMLOperation) error {
	cleaned := strings.ToUpper(StripSQLComments(sql))
	if !strings.Contains(cleaned, " WHERE ") {
		return errs.New(errs.KindSQLValidation, fmt.Sprintf("%s requires a WHERE clause", op)).
			WithDetail("operation", op.String())
	}
	return nil
}

// ValidateDMLSQL validates a single write statement for the classifier
// and the set of security checks this gateway always applies regardless
// of configuration: comment stripping, single-statement enforcement,
// and a dangerous-keyword denylist that catches nested writes (e.g. a
// DROP smuggled through an INSERT ... SELECT subquery).
func ValidateDMLSQL(sql string) (DMLOperation, error) {
	cleaned := strings.TrimSpace(StripSQLComments(sql))
	if cleaned == "" {
		return 0, errs.New(errs.KindSQLValidation, "empty SQL statement")
	}

	op, ok := DMLOperationFromSQL(cleaned)
	if !ok {
		return 0, errs.New(errs.KindSQLValidation, "statement is not an INSERT, UPDATE, or DELETE")
	}

	semicolons := strings.Count(cleaned, ";")
	if semicolons > 1 || (semicolons == 1 && !strings.HasSuffix(cleaned, ";")) {
		return 0, errs.New(errs.KindSQLValidation, "multiple statements not allowed")
	}

	upper := strings.ToUpper(cleaned)
	for _, kw := range dangerousKeywords {
		if containsDangerousKeyword(upper, kw) {
			return 0, errs.New(errs.KindSQLValidation, fmt.Sprintf("dangerous keyword detected: %s", kw)).
				WithDetail("keyword", kw)
		}
	}

	return op, nil
}

// containsDangerousKeyword checks kw as a delimited word, including the
// paren-prefixed form ("(DROP ...") a subquery opener would produce —
// a case the general write-keyword scan doesn't need to cover, since a
// write keyword can't legally open a parenthesized expression the way a
// smuggled dangerous keyword inside a subquery can.
func containsDangerousKeyword(upper, kw string) bool {
	for _, pattern := range deliminatedPatterns(kw) {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	if strings.Contains(upper, "("+kw+" ") || strings.Contains(upper, "("+kw+"(") {
		return true
	}
	return startsWithKeyword(upper, kw)
}

// ValidateProcedureName validates a bare or schema-qualified
// ("SCHEMA.PROCEDURE") stored-procedure name.
func ValidateProcedureName(name string) error {
	if name == "" {
		return errs.New(errs.KindSQLValidation, "procedure name is empty")
	}

	parts := strings.Split(name, ".")
	switch len(parts) {
	case 1:
		return ValidateIdentifier(parts[0], "procedure name")
	case 2:
		if err := ValidateIdentifier(parts[0], "schema name"); err != nil {
			return err
		}
		return ValidateIdentifier(parts[1], "procedure name")
	default:
		return errs.New(errs.KindSQLValidation, fmt.Sprintf("too many dots in procedure name: %s", name))
	}
}

// ValidateLIKEPattern restricts a LIKE pattern to alphanumerics,
// underscore, dollar, hash, and the SQL wildcards % and _, preventing a
// pattern argument from being used to inject additional SQL.
func ValidateLIKEPattern(pattern string) error {
	if pattern == "" {
		return errs.New(errs.KindSQLValidation, "empty LIKE pattern")
	}
	if len(pattern) > MaxIdentifierLength {
		return errs.New(errs.KindSQLValidation, fmt.Sprintf("LIKE pattern too long: %d characters (max %d)", len(pattern), MaxIdentifierLength))
	}
	for _, c := range pattern {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '%' || c == '$' || c == '#':
		default:
			return errs.New(errs.KindSQLValidation, fmt.Sprintf(
				"invalid character in LIKE pattern: %q: only alphanumeric characters, _, $, #, and SQL wildcards (%%, _) are allowed", c))
		}
	}
	return nil
}

// ParseQualifiedName splits "SCHEMA.PROCEDURE" into (schema, procedure);
// an unqualified name falls back to defaultSchema (the caller's current
// schema context), which may itself be empty.
func ParseQualifiedName(name, defaultSchema string) (schema string, procedure string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, name
}
