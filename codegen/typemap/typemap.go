// Package typemap maps contract type tokens to Go type expressions and
// renders contract default values as Go literals.
//
// Unrecognized tokens map to any rather than failing: contracts may carry
// forward-looking type tokens that only later implementation stages resolve.
package typemap

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Go type expressions used by the generated code.
const (
	Any        = "any"
	Float      = "float64"
	Int        = "int"
	Bool       = "bool"
	String     = "string"
	JSONObject = "map[string]any"
	BBox       = "BBox"
	MaskArray  = "MaskArray"
	ImageArray = "ImageArray"
	PathList   = "[]PathData"
)

// ParamType returns the Go type of a contract parameter type token.
func ParamType(token string) string {
	switch strings.ToLower(token) {
	case "float":
		return Float
	case "int":
		return Int
	case "bool", "boolean":
		return Bool
	case "string", "enum":
		return String
	case "json":
		return JSONObject
	default:
		return Any
	}
}

// ArtifactType returns the Go type of an io_contract artifact type token.
func ArtifactType(token string) string {
	switch strings.ToLower(token) {
	case "json":
		return JSONObject
	case "bbox":
		return BBox
	case "mask":
		return MaskArray
	case "image", "raster":
		return ImageArray
	case "svg":
		return String
	case "path_list":
		return PathList
	default:
		return Any
	}
}

// Resolve returns the Go type for a value declared with a parameter type and
// an optional artifact type. The artifact type takes precedence when it is
// set.
func Resolve(paramType, artifactType string) string {
	if artifactType != "" {
		if t := ArtifactType(artifactType); t != Any {
			return t
		}
	}
	return ParamType(paramType)
}

// Nilable reports whether values of the Go type can already be nil.
func Nilable(goType string) bool {
	return goType == Any ||
		strings.HasPrefix(goType, "map[") ||
		strings.HasPrefix(goType, "[]") ||
		strings.HasPrefix(goType, "*")
}

// Optional returns the optional form of goType: a pointer unless the type is
// already nilable.
func Optional(goType string) string {
	if Nilable(goType) {
		return goType
	}
	return "*" + goType
}

// Literal renders a contract default value as a Go expression assignable to
// goType. It returns false when the value has no representation, in which
// case callers fall back to the zero value.
//
// Object keys are emitted in sorted order so the output is deterministic.
func Literal(v any, goType string) (string, bool) {
	if !Assignable(v, goType) {
		return "", false
	}
	switch val := v.(type) {
	case nil:
		if Nilable(goType) {
			return "nil", true
		}
		return "", false
	case string:
		return strconv.Quote(val), true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		if goType == Any {
			return elemLiteral(val), true
		}
		return numberLiteral(val, goType), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case map[string]any:
		return objectLiteral(val), true
	case []any:
		return arrayLiteral(val), true
	default:
		return "", false
	}
}

// Assignable reports whether the decoded JSON value v can be written as a
// literal of goType.
func Assignable(v any, goType string) bool {
	switch goType {
	case Any:
		return true
	case Float:
		n, ok := v.(json.Number)
		return ok && Finite(n)
	case Int:
		n, ok := v.(json.Number)
		return ok && fitsInt(n)
	case Bool:
		_, ok := v.(bool)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	case JSONObject:
		_, ok := v.(map[string]any)
		return ok || v == nil
	default:
		return v == nil && Nilable(goType)
	}
}

// Finite reports whether n is representable as a float64. Number literals
// outside that range fail to compile as float64 constants.
func Finite(n json.Number) bool {
	f, err := strconv.ParseFloat(n.String(), 64)
	return err == nil && !math.IsInf(f, 0)
}

// fitsInt reports whether n, truncated toward zero, fits in an int64.
func fitsInt(n json.Number) bool {
	if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return true
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	return err == nil && f > math.MinInt64 && f < math.MaxInt64
}

// numberLiteral keeps the contract's literal text. Integers declared for a
// float field stay valid untyped constants; fractional values declared for an
// int field are truncated toward zero to keep the generated code compiling.
func numberLiteral(n json.Number, goType string) string {
	s := n.String()
	if goType != Int {
		return s
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return s
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

func objectLiteral(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("map[string]any{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		b.WriteString(elemLiteral(m[k]))
	}
	b.WriteString("}")
	return b.String()
}

func arrayLiteral(items []any) string {
	var b strings.Builder
	b.WriteString("[]any{")
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(elemLiteral(item))
	}
	b.WriteString("}")
	return b.String()
}

// elemLiteral renders values held by any. Numbers become float64 as they
// would after encoding/json decoding into any.
func elemLiteral(v any) string {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) {
			return "float64(" + strconv.FormatFloat(f, 'g', -1, 64) + ")"
		}
		return strconv.Quote(n.String())
	}
	lit, ok := Literal(v, Any)
	if !ok {
		return "nil"
	}
	return lit
}
