package applyscript

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	bareCreateRE = regexp.MustCompile(`(?i)\bCREATE\b`)

	createClauseREs = map[string]*regexp.Regexp{}
)

func init() {
	for _, kw := range []string{"PROCEDURE", "VIEW", "FUNCTION", "TRIGGER"} {
		createClauseREs[kw] = compileCreateClause(kw)
	}
}

func compileCreateClause(keyword string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(keyword)
	if keyword == "PROCEDURE" {
		// PROC is accepted by the server as shorthand.
		pattern = `PROC(?:EDURE)?`
	}
	return regexp.MustCompile(fmt.Sprintf(`(?i)\bCREATE\s+(?:OR\s+ALTER\s+)?%s\b`, pattern))
}

// CreateOrAlter rewrites the leading CREATE clause of a module definition to
// CREATE OR ALTER <keyword> so that it can be applied whether or not the object
// exists yet.
//
// A definition that already reads CREATE [OR ALTER] <keyword> has that clause
// replaced; otherwise the first bare CREATE is. Running the result through
// CreateOrAlter again yields the same text. Definitions with no CREATE at all are
// returned trimmed but otherwise unchanged; see HasCreate.
func CreateOrAlter(definition, keyword string) string {
	cleaned := strings.TrimSpace(definition)
	replacement := "CREATE OR ALTER " + keyword

	re, ok := createClauseREs[keyword]
	if !ok {
		re = compileCreateClause(keyword)
	}

	if loc := re.FindStringIndex(cleaned); loc != nil {
		return cleaned[:loc[0]] + replacement + cleaned[loc[1]:]
	}

	if loc := bareCreateRE.FindStringIndex(cleaned); loc != nil {
		return cleaned[:loc[0]] + replacement + cleaned[loc[1]:]
	}

	return cleaned
}

// HasCreate reports whether the definition contains a CREATE keyword that
// CreateOrAlter can rewrite.
func HasCreate(definition string) bool {
	return bareCreateRE.MatchString(definition)
}
