package naming

import (
	"go/token"
	"strings"
	"unicode"

	"goa.design/goa/v3/codegen"
)

// Sentinel prefixes identifiers that would otherwise be empty or start with a
// digit.
const Sentinel = "f"

// Unnamed is the identifier produced for names without any usable character.
const Unnamed = Sentinel + "_unnamed"

// SafeIdentifier converts an arbitrary string into a snake_case identifier
// made of ASCII letters, digits and underscores.
//
// Runs of other characters collapse to a single '_', leading and trailing
// underscores are trimmed, results that are empty or start with a digit get
// the Sentinel prefix and Go keywords get a trailing '_'. When lower is true
// the input is lowercased first. SafeIdentifier is a pure function.
func SafeIdentifier(name string, lower bool) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return Unnamed
	}
	if lower {
		s = strings.ToLower(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if isIdentRune(r) && r != '_' {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	s = b.String()
	if s == "" {
		return Unnamed
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = Sentinel + "_" + s
	}
	if token.IsKeyword(s) {
		s += "_"
	}
	return s
}

func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// SanitizeToken converts an arbitrary string into a filesystem-safe token.
// It is used to derive deterministic names such as the generated CLI program
// name from user input.
//
// The returned token:
//   - is lower snake_case
//   - contains only [a-z0-9_]
//   - never starts/ends with '_' and never contains repeated "__"
//
// When the sanitized result is empty, SanitizeToken returns fallback.
func SanitizeToken(name, fallback string) string {
	s := strings.ToLower(codegen.SnakeCase(name))
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s == "" {
		return fallback
	}
	return s
}

// PackageName returns the Go package name of the module with the given
// abbreviation. "main" is suffixed like a keyword: generated packages are
// libraries.
func PackageName(abbr string) string {
	name := SafeIdentifier(abbr, true)
	if name == "main" {
		name += "_"
	}
	return name
}

// ModuleDirName returns the output directory name of the module with the
// given abbreviation. Abbreviations are kept verbatim except for characters
// outside [A-Za-z0-9_-], which become '_', so a module can never escape the
// modules directory.
func ModuleDirName(abbr string) string {
	s := strings.Map(func(r rune) rune {
		if isIdentRune(r) || r == '-' {
			return r
		}
		return '_'
	}, strings.TrimSpace(abbr))
	if s == "" {
		return Unnamed
	}
	return s
}

// HumanizeTitle converts a slug-like name (snake_case, kebab-case, dotted)
// into a conservative Title Case string.
func HumanizeTitle(s string) string {
	if s == "" {
		return s
	}
	// use last segment after '.' when present
	if i := strings.LastIndexByte(s, '.'); i >= 0 && i+1 < len(s) {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	parts := strings.Fields(s)
	for i := range parts {
		if len(parts[i]) == 0 {
			continue
		}
		r := []rune(parts[i])
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
