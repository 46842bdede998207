package source

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Filter keeps the records whose cells fuzzy-match every non-empty filter.
// Record order is preserved.
func Filter(records []*Record, filters map[string]string) []*Record {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return records
	}
	sort.Strings(keys)

	current := records
	for _, key := range keys {
		values := make([]string, len(current))
		for i, rec := range current {
			values[i] = rec.CellValue(key)
		}
		matches := fuzzy.Find(filters[key], values)
		hit := make([]bool, len(current))
		for _, m := range matches {
			hit[m.Index] = true
		}
		next := make([]*Record, 0, len(matches))
		for i, rec := range current {
			if hit[i] {
				next = append(next, rec)
			}
		}
		current = next
	}
	return current
}
