package source

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	wideGap    = regexp.MustCompile(`\s{2,}`)
)

// Split selects how ParseText finds column boundaries.
type Split int

const (
	// SplitFields separates columns by any whitespace, as in ps or df.
	SplitFields Split = iota
	// SplitWide separates columns by runs of two or more spaces, for output
	// whose header names contain spaces, as in docker ps.
	SplitWide
)

// ParseSplit reads "fields" or "wide".
func ParseSplit(s string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fields":
		return SplitFields, nil
	case "wide":
		return SplitWide, nil
	}
	return SplitFields, fmt.Errorf("unknown split mode %q", s)
}

// ParseText turns command output into a table. The first non-blank line is
// the header and the last column keeps the rest of each line.
func ParseText(name string, lines []string, mode Split) (*Table, error) {
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimRight(ansiEscape.ReplaceAllString(line, ""), "\r\n \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("parse %s: no output", name)
	}

	header := strings.TrimSpace(cleaned[0])
	split := splitFields
	if mode == SplitWide {
		split = func(s string, n int) []string { return wideGap.Split(strings.TrimSpace(s), n) }
	}

	columns := uniqueNames(split(header, -1))
	t := &Table{Name: name, Columns: columns}
	for i, line := range cleaned[1:] {
		fields := split(line, len(columns))
		values := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(fields) {
				values[col] = strings.TrimSpace(fields[j])
			}
		}
		t.Records = append(t.Records, &Record{ID: int64(i + 1), values: values})
	}
	return t, nil
}

// splitFields splits on whitespace into at most n fields; n < 0 means no
// limit.
func splitFields(s string, n int) []string {
	s = strings.TrimSpace(s)
	if n < 0 {
		return strings.Fields(s)
	}
	var out []string
	for len(out) < n-1 && s != "" {
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			break
		}
		out = append(out, s[:idx])
		s = strings.TrimLeft(s[idx:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			n = fmt.Sprintf("col%d", i+1)
		}
		seen[n]++
		if c := seen[n]; c > 1 {
			n = fmt.Sprintf("%s_%d", n, c)
		}
		out[i] = n
	}
	return out
}
