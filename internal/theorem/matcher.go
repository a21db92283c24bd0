package theorem

import (
	"regexp"
	"sort"
	"strings"

	"geoproof/pkg/cache"
)

var reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Matcher maps a student's informal theorem name to one of an adapter's
// canonical names via a four-tier cascade: exact, substring,
// keyword-overlap, edit-ratio. Results are cached by
// normalized input so a repeated misspelling across steps of the same
// solution is resolved once.
type Matcher struct {
	canonical           []string
	cache               *cache.LRU[string, string]
	strict              bool
	similarityThreshold float64
}

// NewMatcher builds a Matcher over a fixed dictionary of canonical
// theorem names, typically an adapter's KnownTheorems().
// similarityThreshold is the minimum Ratcliff-Obershelp ratio the final
// tier requires before accepting a match (internal/config's
// Grading.SimilarityThreshold).
func NewMatcher(canonicalNames []string, similarityThreshold float64) *Matcher {
	return &Matcher{
		canonical:           append([]string(nil), canonicalNames...),
		cache:               cache.New[string, string](&cache.Config{MaxEntries: 256}),
		similarityThreshold: similarityThreshold,
	}
}

// NewStrictMatcher builds a Matcher that only ever resolves an exact or
// substring match, skipping the keyword-overlap and similarity tiers. A
// deployment with strict_theorem_matching enabled (internal/config's
// Features.StrictTheoremMatching) uses this instead, trading tolerance for
// misspelled theorem names for fewer false-positive resolutions.
func NewStrictMatcher(canonicalNames []string) *Matcher {
	m := NewMatcher(canonicalNames, 0)
	m.strict = true
	return m
}

// Match runs the cascade over studentName and returns the canonical name it
// resolves to, or ("", false) when no tier succeeds — the caller treats
// that as UnknownTheorem.
func (m *Matcher) Match(studentName string) (string, bool) {
	normalized := normalizeTheoremName(studentName)
	if normalized == "" {
		return "", false
	}

	if hit, ok := m.cache.Get(normalized); ok {
		if hit == "" {
			return "", false
		}
		return hit, true
	}

	canonical, ok := m.matchUncached(normalized)
	if ok {
		m.cache.Set(normalized, canonical)
	} else {
		m.cache.Set(normalized, "")
	}
	return canonical, ok
}

func (m *Matcher) matchUncached(normalized string) (string, bool) {
	for _, name := range m.canonical {
		if normalized == name {
			return name, true
		}
	}

	for _, name := range m.canonical {
		if strings.Contains(normalized, name) || strings.Contains(name, normalized) {
			return name, true
		}
	}

	if m.strict {
		return "", false
	}

	if name, ok := keywordOverlapMatch(normalized, m.canonical); ok {
		return name, true
	}

	return similarityMatch(normalized, m.canonical, m.similarityThreshold)
}

// normalizeTheoremName lowercases and collapses non-alphanumeric runs to a
// single underscore, trimming leading/trailing underscores.
func normalizeTheoremName(name string) string {
	lower := strings.ToLower(name)
	collapsed := reNonAlphanumeric.ReplaceAllString(lower, "_")
	return strings.Trim(collapsed, "_")
}

// keywordOverlapMatch requires at least 2 shared underscore-delimited
// tokens, breaking ties by overlap count then alphabetical order.
func keywordOverlapMatch(normalized string, canonical []string) (string, bool) {
	studentTokens := tokenSet(normalized)

	type candidate struct {
		name    string
		overlap int
	}
	var candidates []candidate
	for _, name := range canonical {
		overlap := len(studentTokens.intersect(tokenSet(name)))
		if overlap >= 2 {
			candidates = append(candidates, candidate{name, overlap})
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates[0].name, true
}

// similarityMatch picks the canonical name with the highest
// Ratcliff–Obershelp ratio against normalized, accepting it only when the
// ratio clears threshold.
func similarityMatch(normalized string, canonical []string, threshold float64) (string, bool) {
	bestName := ""
	bestRatio := 0.0
	for _, name := range canonical {
		if r := similarityRatio(normalized, name); r > bestRatio {
			bestRatio = r
			bestName = name
		}
	}
	if bestName != "" && bestRatio >= threshold {
		return bestName, true
	}
	return "", false
}

type stringSet map[string]struct{}

func tokenSet(s string) stringSet {
	set := make(stringSet)
	for _, tok := range strings.Split(s, "_") {
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

func (s stringSet) intersect(other stringSet) stringSet {
	out := make(stringSet)
	for k := range s {
		if _, ok := other[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
