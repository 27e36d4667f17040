package push

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// reservedNames are identifiers that need quoting in most SQL dialects and
// get a _t suffix instead.
var reservedNames = map[string]struct{}{
	"user":   {},
	"order":  {},
	"select": {},
	"table":  {},
	"group":  {},
	"where":  {},
}

var (
	startsWithLetter = regexp.MustCompile(`^[a-z]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

// snake slugifies s into lowercase ASCII words joined by underscores.
func snake(s string) string {
	out := strings.ReplaceAll(slug.Make(s), "-", "_")
	out = underscoreRuns.ReplaceAllString(out, "_")
	return strings.Trim(out, "_")
}

// TableName turns a workbook table name into a safe identifier: snake case,
// starting with a letter and never a reserved word.
func TableName(name string) string {
	s := snake(name)
	switch {
	case s == "":
		s = "t_sheet"
	case !startsWithLetter.MatchString(s):
		s = "t_" + s
	}
	if _, ok := reservedNames[s]; ok {
		s += "_t"
	}
	return s
}

// ColumnNames snake cases columns, names empty ones col_N (1-based) and
// suffixes repeats with _2, _3...
func ColumnNames(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		base := snake(c)
		if base == "" {
			base = fmt.Sprintf("col_%d", i+1)
		}
		name := base
		for n := 2; ; n++ {
			if _, taken := seen[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out
}

// uniqueTableName suffixes name until it no longer collides with taken.
func uniqueTableName(name string, taken map[string]struct{}) string {
	out := name
	for n := 2; ; n++ {
		if _, ok := taken[out]; !ok {
			return out
		}
		out = fmt.Sprintf("%s_%d", name, n)
	}
}
