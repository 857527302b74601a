package index

import (
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

// maxEditDistance bounds fuzzy matching proportionally to query length:
// a quarter of the query's rune count, and at least one edit. Candidates
// beyond the bound are rejected rather than returned as low-quality
// matches.
func maxEditDistance(query string) int {
	bound := utf8.RuneCountInString(query) / 4
	if bound < 1 {
		bound = 1
	}
	return bound
}

// runeDistance is the Wagner-Fischer edit distance counted in runes.
// Both strings are recoded onto a shared single-byte alphabet first,
// since the underlying implementation compares bytes.
func runeDistance(a, b string) int {
	alphabet := make(map[rune]byte)
	encode := func(s string) string {
		encoded := make([]byte, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			symbol, ok := alphabet[r]
			if !ok {
				symbol = byte(len(alphabet))
				alphabet[r] = symbol
			}
			encoded = append(encoded, symbol)
		}
		return string(encoded)
	}
	return smetrics.WagnerFischer(encode(a), encode(b), 1, 1, 1)
}

// grams decomposes a normalized surface into rune bigrams. Surfaces
// shorter than two runes index as themselves.
func grams(key string) []string {
	runes := []rune(key)
	if len(runes) < 2 {
		return []string{key}
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i+2 <= len(runes); i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}

// fuzzy returns the best lexical similarity per canonical term for
// surfaces within the edit-distance bound. Candidate generation goes
// through the gram index so the scan touches only surfaces sharing at
// least one bigram with the query.
func (s *snapshot) fuzzy(query string) map[string]scored {
	bound := maxEditDistance(query)
	queryRunes := utf8.RuneCountInString(query)

	candidates := make(map[int]bool)
	for _, gram := range grams(query) {
		for _, idx := range s.grams[gram] {
			candidates[idx] = true
		}
	}

	hits := make(map[string]scored)
	for idx := range candidates {
		entry := s.entries[idx]
		distance := runeDistance(query, entry.key)
		if distance > bound {
			continue
		}

		longest := queryRunes
		if n := utf8.RuneCountInString(entry.key); n > longest {
			longest = n
		}
		similarity := 1.0 - float64(distance)/float64(longest)

		if best, ok := hits[entry.term.Name]; !ok || similarity > best.score {
			hits[entry.term.Name] = scored{term: entry.term, score: similarity}
		}
	}
	return hits
}
