// Package pgtypes projects PostgreSQL type names onto schema kinds, the same
// way a client-side type generator does: integers and numerics become
// numbers, text and temporal types become strings, json/jsonb stay JSON and
// anything without a client representation (tsvector, …) is unknown.
//
// Type names are resolved through pgx's pgtype registry; no connection is
// ever opened.
package pgtypes

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koustreak/schemareg/internal/schema"
)

// registry is read-only after init.
var registry = pgtype.NewMap()

// aliases maps SQL-standard spellings, as reported by information_schema,
// to the internal type names pgtype registers.
var aliases = map[string]string{
	"integer":                     "int4",
	"int":                         "int4",
	"serial":                      "int4",
	"smallint":                    "int2",
	"smallserial":                 "int2",
	"bigint":                      "int8",
	"bigserial":                   "int8",
	"real":                        "float4",
	"double precision":            "float8",
	"decimal":                     "numeric",
	"boolean":                     "bool",
	"character varying":           "varchar",
	"character":                   "bpchar",
	"char":                        "bpchar",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamptz",
	"time without time zone":      "time",
	"time with time zone":         "timetz",
}

// Classify returns the schema type for a PostgreSQL type name. ok is false
// when the name is not a built-in type pgtype knows; callers usually check
// user-defined enums and composite types before falling back to
// schema.Unknown.
//
// Arrays ("int4[]", "_int4") project to JSON, as they travel as JSON arrays.
func Classify(name string) (t schema.Type, ok bool) {
	n := normalize(name)
	if n == "" {
		return schema.Unknown, false
	}
	if elem, isArray := arrayElement(n); isArray {
		if _, known := Classify(elem); !known {
			return schema.Unknown, false
		}
		return schema.JSON, true
	}
	if a, found := aliases[n]; found {
		n = a
	}

	pt, found := registry.TypeForName(n)
	if !found {
		return schema.Unknown, false
	}
	return kindForOID(pt.OID), true
}

// Known reports whether name is a built-in PostgreSQL type.
func Known(name string) bool {
	_, ok := Classify(name)
	return ok
}

func kindForOID(oid uint32) schema.Type {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID, pgtype.OIDOID,
		pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return schema.Number
	case pgtype.BoolOID:
		return schema.Boolean
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID, pgtype.QCharOID,
		pgtype.UUIDOID, pgtype.ByteaOID,
		pgtype.DateOID, pgtype.TimeOID, pgtype.TimestampOID, pgtype.TimestamptzOID,
		pgtype.IntervalOID:
		return schema.String
	case pgtype.JSONOID, pgtype.JSONBOID:
		return schema.JSON
	default:
		return schema.Unknown
	}
}

// normalize lower-cases the name, drops a "pg_catalog." qualifier and any
// length modifier such as varchar(255) or numeric(10,2).
func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "pg_catalog.")
	if i := strings.IndexByte(n, '('); i >= 0 {
		if j := strings.IndexByte(n[i:], ')'); j >= 0 {
			n = strings.TrimSpace(n[:i] + n[i+j+1:])
		}
	}
	return n
}

func arrayElement(n string) (string, bool) {
	if strings.HasSuffix(n, "[]") {
		return strings.TrimSpace(strings.TrimSuffix(n, "[]")), true
	}
	if strings.HasPrefix(n, "_") && len(n) > 1 {
		return n[1:], true
	}
	return "", false
}
