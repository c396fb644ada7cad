package cache

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Namespace groups cache keys by the kind of data they hold, and forms
// the prefix used by DeleteByPrefix invalidation.
type Namespace int

const (
	NamespaceTableSchema Namespace = iota
	NamespaceTableList
	NamespaceProcedureSchema
	NamespaceProcedureList
	NamespaceQueryResult
	NamespaceCustom
)

// String returns the wire prefix for the namespace, matching the
// original's namespace tags exactly so DeleteByPrefix patterns stay
// stable across a port.
func (n Namespace) String() string {
	switch n {
	case NamespaceTableSchema:
		return "tbl_schema"
	case NamespaceTableList:
		return "tbl_list"
	case NamespaceProcedureSchema:
		return "proc_schema"
	case NamespaceProcedureList:
		return "proc_list"
	case NamespaceQueryResult:
		return "query"
	default:
		return "custom"
	}
}

// CacheKey identifies a cached value. Construct one of the factory
// functions below rather than the struct literal directly, so the
// schema/identifier normalization and key-string layout stay consistent.
type CacheKey struct {
	namespace  Namespace
	schema     string
	hasSchema  bool
	identifier string
	variant    string
	hasVariant bool
	userID     string
	hasUserID  bool
}

// SystemUser is the conventional user ID for single-tenant deployments
// (stdio transport, or auth disabled) where per-user cache isolation
// doesn't apply.
const SystemUser = "_system"

// TableSchema keys a cached column-metadata result for one table.
func TableSchema(schema *string, table string) CacheKey {
	k := CacheKey{namespace: NamespaceTableSchema, identifier: strings.ToUpper(table)}
	if schema != nil {
		k.schema, k.hasSchema = strings.ToUpper(*schema), true
	}
	return k
}

// TableList keys a cached table-listing result for a schema.
func TableList(schema *string) CacheKey {
	k := CacheKey{namespace: NamespaceTableList, identifier: "_all"}
	if schema != nil {
		k.schema, k.hasSchema = strings.ToUpper(*schema), true
	}
	return k
}

// ProcedureSchema keys a cached parameter-metadata result for one procedure.
func ProcedureSchema(schema *string, procedure string) CacheKey {
	k := CacheKey{namespace: NamespaceProcedureSchema, identifier: strings.ToUpper(procedure)}
	if schema != nil {
		k.schema, k.hasSchema = strings.ToUpper(*schema), true
	}
	return k
}

// ProcedureList keys a cached procedure-listing result for a schema,
// optionally narrowed by a name pattern.
func ProcedureList(schema *string, pattern *string) CacheKey {
	k := CacheKey{namespace: NamespaceProcedureList, identifier: "_all"}
	if schema != nil {
		k.schema, k.hasSchema = strings.ToUpper(*schema), true
	}
	if pattern != nil {
		k.variant, k.hasVariant = strings.ToUpper(*pattern), true
	}
	return k
}

// QueryResult keys a cached SELECT result. userID is required: it is
// hashed together with sql so that two users issuing the identical
// query never collide on the same cache entry. Single-tenant callers
// should pass SystemUser.
func QueryResult(sql string, limit *int, userID string) CacheKey {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sql))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(userID))

	k := CacheKey{
		namespace:  NamespaceQueryResult,
		identifier: fmt.Sprintf("%016x:%d", h.Sum64(), len(sql)),
		userID:     userID,
		hasUserID:  true,
	}
	if limit != nil {
		k.variant, k.hasVariant = strconv.Itoa(*limit), true
	}
	return k
}

// Custom keys an arbitrary cache entry outside the predefined namespaces.
func Custom(identifier string, variant *string) CacheKey {
	k := CacheKey{namespace: NamespaceCustom, identifier: identifier}
	if variant != nil {
		k.variant, k.hasVariant = *variant, true
	}
	return k
}

// WithUser attaches a user ID to an already-built key, for namespaces
// that don't set one via their factory (e.g. table/procedure metadata
// shared across users but still worth tagging when traced per-caller).
func (k CacheKey) WithUser(userID *string) CacheKey {
	if userID != nil {
		k.userID, k.hasUserID = *userID, true
	} else {
		k.userID, k.hasUserID = "", false
	}
	return k
}

// Namespace returns the key's namespace.
func (k CacheKey) Namespace() Namespace { return k.namespace }

// NamespacePrefix returns the schema-qualified namespace prefix used for
// DeleteByPrefix invalidation (e.g. "tbl_schema:MYSCHEMA" or "tbl_list").
func (k CacheKey) NamespacePrefix() string {
	if k.hasSchema {
		return k.namespace.String() + ":" + k.schema
	}
	return k.namespace.String()
}

// String renders the deterministic, colon-joined key string used as the
// storage key: namespace[:schema]:identifier[:variant][:u:user].
func (k CacheKey) String() string {
	parts := []string{k.namespace.String()}
	if k.hasSchema {
		parts = append(parts, k.schema)
	}
	parts = append(parts, k.identifier)
	if k.hasVariant {
		parts = append(parts, k.variant)
	}
	if k.hasUserID {
		parts = append(parts, "u:"+k.userID)
	}
	return strings.Join(parts, ":")
}
