// Package search ranks records against a free-text query with deterministic
// weighted term matching. Scoring is integer-valued and has no randomness or
// tie-breaking beyond stable original order, so identical inputs always
// produce identical result lists.
package search

import (
	"sort"
	"strings"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
)

// DefaultLimit caps result lists when the caller does not supply a limit.
const DefaultLimit = 5

// Scorer names the record fields the relevance score is computed from.
type Scorer struct {
	TitleField string
	BodyField  string
	TagsField  string
}

// Match is one scored search hit.
type Match struct {
	Record record.Record
	Score  int
}

// Score computes the relevance of rec for the query:
//
//	+10 when the query is a substring of the title,
//	 +2 per tag containing the query,
//	 +1 per non-overlapping occurrence in the body.
//
// The comparison is case-insensitive throughout. An empty query matches
// everything with the score computed the same way.
func (s Scorer) Score(rec record.Record, query string) int {
	q := strings.ToLower(query)
	score := 0

	if strings.Contains(strings.ToLower(rec.String(s.TitleField)), q) {
		score += 10
	}
	for _, tag := range rec.Strings(s.TagsField) {
		if strings.Contains(strings.ToLower(tag), q) {
			score += 2
		}
	}
	score += countOccurrences(strings.ToLower(rec.String(s.BodyField)), q)

	return score
}

// Rank scores every record against the query, keeps the ones where the query
// appears in the title, body, or a tag, and returns them sorted by score
// descending. Ties keep the records' original order. The list is truncated to
// limit after sorting; limit <= 0 means DefaultLimit.
func (s Scorer) Rank(recs []record.Record, query string, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0, len(recs))
	for _, rec := range recs {
		if !s.matches(rec, query) {
			continue
		}
		matches = append(matches, Match{Record: rec, Score: s.Score(rec, query)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// matches reports whether the query appears in the title, the body, or at
// least one tag. The empty query is a substring of everything.
func (s Scorer) matches(rec record.Record, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(rec.String(s.TitleField)), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.String(s.BodyField)), q) {
		return true
	}
	for _, tag := range rec.Strings(s.TagsField) {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// countOccurrences counts non-overlapping occurrences of q in text. An empty
// query contributes nothing: strings.Count would return len+1 otherwise.
func countOccurrences(text, q string) int {
	if q == "" {
		return 0
	}
	return strings.Count(text, q)
}
