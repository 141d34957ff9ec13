package drift

import (
	"regexp"
	"strings"
)

var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`(?m)--.*$`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
	lineEndingsRE  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Normalize canonicalizes a module or constraint definition for comparison.
//
// Line endings are unified to \n. When stripComments is set, block comments are
// removed first and then line comments. The result is trimmed, and when
// ignoreWhitespace is set every whitespace run collapses to a single space.
//
// Normalization is purely lexical: a string literal containing "--" or "/*" is
// treated like a comment.
//
// Example:
//
//	Normalize(" \n/* header */\nCREATE PROC Foo AS\n-- inline\nSELECT 1 \n", true, true)
//	// Result: "CREATE PROC Foo AS SELECT 1"
func Normalize(definition string, ignoreWhitespace, stripComments bool) string {
	d := NormalizeLineEndings(definition)
	if stripComments {
		d = StripComments(d)
	}

	d = strings.TrimSpace(d)
	if ignoreWhitespace {
		d = whitespaceRE.ReplaceAllString(d, " ")
	}
	return d
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(s string) string {
	return lineEndingsRE.Replace(s)
}

// StripComments removes /* */ spans (across lines) and then -- comments up to end of line.
//
// Removing a comment can join its neighbours into a new opener ("//* a */* b */"), so
// stripping repeats until nothing changes.
func StripComments(s string) string {
	for {
		stripped := lineCommentRE.ReplaceAllString(blockCommentRE.ReplaceAllString(s, ""), "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
