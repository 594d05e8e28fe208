package codegen

import (
	"strconv"
	"strings"

	goacodegen "goa.design/goa/v3/codegen"
)

// templateFuncMap returns the helpers shared by every section template.
func templateFuncMap() map[string]any {
	return map[string]any{
		"goify":       goacodegen.Goify,
		"comment":     func(s string) string { return goacodegen.Comment(oneLine(s)) },
		"quote":       strconv.Quote,
		"oneLine":     oneLine,
		"htmlComment": htmlCommentText,
		"cell":        markdownCell,
		"join":        strings.Join,
	}
}

// oneLine collapses whitespace runs, newlines included, to single spaces so
// contract text can be embedded in line comments.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlCommentText makes s safe inside an HTML comment: one line and no
// "--" run, so a value cannot close the comment early.
func htmlCommentText(s string) string {
	s = oneLine(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}

// markdownCell makes s safe for a single Markdown table cell.
func markdownCell(s string) string {
	s = oneLine(s)
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
