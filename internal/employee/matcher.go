package employee

import "sort"

// RankedResult is a record that shares at least one tag with a query.
type RankedResult struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	MatchCount      int      `json:"match_count"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// Rank scores records by the number of distinct query tags they carry.
// Tags compare by exact string equality. Records without overlap are dropped.
// Results are ordered by MatchCount descending, then Name ascending, and
// MatchedKeywords are sorted ascending.
func Rank(queryTags []string, records []Record) []RankedResult {
	query := toSet(queryTags)
	results := make([]RankedResult, 0)
	if len(query) == 0 {
		return results
	}

	for _, record := range records {
		matched := make([]string, 0)
		for tag := range toSet(record.Tags) {
			if _, ok := query[tag]; ok {
				matched = append(matched, tag)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.Strings(matched)

		results = append(results, RankedResult{
			Name:            record.Name,
			Description:     record.Description,
			Tags:            record.Tags,
			MatchCount:      len(matched),
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchCount != results[j].MatchCount {
			return results[i].MatchCount > results[j].MatchCount
		}
		return results[i].Name < results[j].Name
	})

	return results
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
