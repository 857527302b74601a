package extract

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// ScriptClass identifies the writing system of a token.
type ScriptClass int

const (
	ScriptOther ScriptClass = iota
	ScriptKatakana
	ScriptKanji
	ScriptLatin
	ScriptDigit
)

// Token is a segmented surface with its byte offset in the source text.
type Token struct {
	Surface string
	Class   ScriptClass
	Start   int
	End     int
	// Known marks a lexicon match rather than a script-class run.
	Known bool
}

// Runes returns the token length in runes.
func (t Token) Runes() int {
	return utf8.RuneCountInString(t.Surface)
}

// Segmenter is the morphological segmentation capability. The extractor
// depends only on this interface; the concrete variant is selected once
// at startup. LexiconSegmenter is the full segmenter; PatternSegmenter
// is the pattern-only fallback used when no lexicon is available.
type Segmenter interface {
	// Segment splits a text block into candidate tokens in source order.
	Segment(text string) []Token
}

// classOf classifies a single rune.
func classOf(r rune) ScriptClass {
	switch {
	case r == 'ー' || (r >= 'ァ' && r <= 'ヴ') || r == 'ヶ' || r == 'ヵ',
		r == 'ｰ' || (r >= 'ｦ' && r <= 'ﾝ'):
		// Prolonged sound marks extend katakana runs; halfwidth forms
		// classify the same as their fullwidth counterparts.
		return ScriptKatakana
	case unicode.In(r, unicode.Han):
		return ScriptKanji
	case unicode.IsLetter(r) && r < utf8.RuneSelf:
		return ScriptLatin
	case unicode.IsDigit(r):
		return ScriptDigit
	default:
		return ScriptOther
	}
}

// PatternSegmenter splits text into maximal contiguous runs of a single
// script class. It is the fallback segmenter: deterministic, dependency
// free, and good enough for katakana and Latin technical vocabulary.
type PatternSegmenter struct{}

var _ Segmenter = (*PatternSegmenter)(nil)

// NewPatternSegmenter creates the pattern-only fallback segmenter.
func NewPatternSegmenter() *PatternSegmenter {
	return &PatternSegmenter{}
}

// Segment splits text into script-class runs.
func (s *PatternSegmenter) Segment(text string) []Token {
	var tokens []Token
	var current []rune
	var class ScriptClass
	start := 0

	flush := func(end int) {
		if len(current) > 0 && class != ScriptOther {
			tokens = append(tokens, Token{
				Surface: string(current),
				Class:   class,
				Start:   start,
				End:     end,
			})
		}
		current = current[:0]
	}

	for i, r := range text {
		c := classOf(r)
		if c != class || len(current) == 0 {
			flush(i)
			class = c
			start = i
		}
		current = append(current, r)
	}
	flush(len(text))

	return tokens
}

// LexiconSegmenter is the full segmenter: it matches known vocabulary
// (longest match first) before falling back to script-class runs for the
// unmatched remainder. The lexicon typically holds the registry's names
// and aliases, which lets multi-script compounds like 鉄筋コンクリート造
// segment on term boundaries instead of script boundaries. Matched
// entries are marked Known.
type LexiconSegmenter struct {
	entries  []string // sorted by rune length descending
	fallback *PatternSegmenter
}

var _ Segmenter = (*LexiconSegmenter)(nil)

// NewLexiconSegmenter creates a full segmenter over the given vocabulary.
// Entries shorter than 2 runes are ignored.
func NewLexiconSegmenter(lexicon []string) *LexiconSegmenter {
	entries := make([]string, 0, len(lexicon))
	for _, entry := range lexicon {
		if utf8.RuneCountInString(entry) >= 2 {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i]) > utf8.RuneCountInString(entries[j])
	})
	return &LexiconSegmenter{
		entries:  entries,
		fallback: NewPatternSegmenter(),
	}
}

// Segment matches lexicon entries greedily left to right, delegating the
// gaps between matches to the pattern fallback.
func (s *LexiconSegmenter) Segment(text string) []Token {
	var tokens []Token
	pos := 0

	for pos < len(text) {
		entry, ok := s.matchAt(text, pos)
		if !ok {
			pos += runeLen(text[pos:])
			continue
		}
		// Segment the unmatched gap before this entry.
		tokens = append(tokens, s.segmentGap(text, gapStart(tokens), pos)...)
		tokens = append(tokens, Token{
			Surface: entry,
			Class:   dominantClass(entry),
			Start:   pos,
			End:     pos + len(entry),
			Known:   true,
		})
		pos += len(entry)
	}
	tokens = append(tokens, s.segmentGap(text, gapStart(tokens), len(text))...)

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })
	return tokens
}

func (s *LexiconSegmenter) matchAt(text string, pos int) (string, bool) {
	for _, entry := range s.entries {
		if len(text)-pos >= len(entry) && text[pos:pos+len(entry)] == entry {
			return entry, true
		}
	}
	return "", false
}

func (s *LexiconSegmenter) segmentGap(text string, from, to int) []Token {
	if from >= to {
		return nil
	}
	gap := s.fallback.Segment(text[from:to])
	for i := range gap {
		gap[i].Start += from
		gap[i].End += from
	}
	return gap
}

func gapStart(tokens []Token) int {
	if len(tokens) == 0 {
		return 0
	}
	return tokens[len(tokens)-1].End
}

func runeLen(s string) int {
	_, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return 1
	}
	return n
}

func dominantClass(s string) ScriptClass {
	counts := make(map[ScriptClass]int)
	for _, r := range s {
		counts[classOf(r)]++
	}
	best, bestCount := ScriptOther, 0
	for class, count := range counts {
		if count > bestCount {
			best, bestCount = class, count
		}
	}
	return best
}
