package contract

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ohler55/ojg/jp"
)

// Absent is the value meta fields take when the contract does not declare
// them.
const Absent = "None"

// Meta is the traceability snapshot derived from one contract. It is computed
// once per contract per run and passed by value to every renderer.
type Meta struct {
	ModuleID      string
	ModuleAbbr    string
	ModuleType    string
	Version       string
	SchemaName    string
	SchemaVersion string
	// SHA256 is the lowercase hex SHA-256 of the raw contract bytes.
	SHA256 string
}

var (
	moduleIDPath       = jp.MustParseString("$.module_id")
	moduleAbbrPath     = jp.MustParseString("$.module_abbr")
	moduleTypePath     = jp.MustParseString("$.module_type")
	versionPath        = jp.MustParseString("$.version")
	schemaNamePaths    = []jp.Expr{jp.MustParseString("$['_schema'].name"), jp.MustParseString("$.schema.name")}
	schemaVersionPaths = []jp.Expr{jp.MustParseString("$['_schema'].version"), jp.MustParseString("$.schema.version")}
)

// NewMeta derives the metadata snapshot from a parsed contract tree and the
// raw bytes it was parsed from.
func NewMeta(tree map[string]any, raw []byte) Meta {
	return Meta{
		ModuleID:      lookup(tree, moduleIDPath),
		ModuleAbbr:    lookup(tree, moduleAbbrPath),
		ModuleType:    lookup(tree, moduleTypePath),
		Version:       lookup(tree, versionPath),
		SchemaName:    lookup(tree, schemaNamePaths...),
		SchemaVersion: lookup(tree, schemaVersionPaths...),
		SHA256:        Fingerprint(raw),
	}
}

// Fingerprint returns the hex SHA-256 of raw. The digest covers the exact
// bytes, so formatting-only edits change it.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// lookup returns the first non-null value found at any of paths, or Absent.
func lookup(tree map[string]any, paths ...jp.Expr) string {
	for _, p := range paths {
		v := p.First(tree)
		if v == nil {
			continue
		}
		if s := stringOf(v); s != "" || isString(v) {
			return s
		}
	}
	return Absent
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
