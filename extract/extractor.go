package extract

import (
	"log/slog"
	"strings"

	"github.com/poiesic/termdex/core"
)

// Extractor turns raw text blocks into candidate term mentions using
// lexical patterns and morphological segmentation. It is stateless and
// deterministic for identical input.
//
// Rules are evaluated in fixed priority order, first match wins per span:
//
//  1. bracketed alias lists: 鉄筋コンクリート（RC、鉄コン）
//  2. short Latin abbreviations adjacent to a longer term become aliases
//  3. maximal script-class runs of length >= 2 are candidate surfaces
//  4. heading/list/table cues override category and surface inference
//  5. comment lines are skipped entirely
//
// Candidates from free text must pass the construction-domain filter.
// Candidates from structurally marked lines (headings, list items, table
// rows) and surfaces matched from the segmenter's lexicon are kept
// unconditionally; the filter bounds false positives from unknown
// surfaces, not known vocabulary.
type Extractor struct {
	segmenter Segmenter
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithSegmenter selects the segmentation capability.
// Default is the pattern-only fallback.
func WithSegmenter(segmenter Segmenter) Option {
	return func(e *Extractor) error {
		if segmenter != nil {
			e.segmenter = segmenter
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates an extractor.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		segmenter: NewPatternSegmenter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract applies the rule pipeline to a text block and returns the
// deduplicated candidates found in it.
func (e *Extractor) Extract(text string) []*core.Candidate {
	set := newCandidateSet()
	category := ""

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || isCommentLine(line) {
			continue
		}

		if heading, ok := headingText(line); ok {
			category = heading
			continue
		}

		if item, ok := listItemText(line); ok {
			e.collectListItem(set, item, category)
			continue
		}

		if cells, ok := tableCells(line); ok {
			e.collectTableRow(set, cells, category)
			continue
		}

		e.collectFreeText(set, line)
	}

	candidates := set.slice()
	e.logger.Debug("extracted candidates", "lines", strings.Count(text, "\n")+1, "candidates", len(candidates))
	return candidates
}

// collectListItem handles `- 術語名（別名1、別名2）` lines. The nearest
// heading supplies the category; the candidate bypasses the domain filter.
func (e *Extractor) collectListItem(set *candidateSet, item, category string) {
	surface := item
	var aliases []string
	if m := bracketAliasRe.FindStringSubmatch(item); m != nil && strings.HasPrefix(item, m[1]) {
		surface = m[1]
		aliases = splitAliases(m[2])
	}
	set.add(&core.Candidate{
		Surface:      surface,
		CategoryHint: category,
		AliasHints:   aliases,
		Frequency:    1,
	}, true)
}

// collectTableRow handles `| 術語 | 分類 | 別名 |` rows. A row's own
// category cell beats the enclosing heading.
func (e *Extractor) collectTableRow(set *candidateSet, cells []string, category string) {
	surface := cells[0]
	if len(cells) > 1 && cells[1] != "" {
		category = cells[1]
	}
	var aliases []string
	if len(cells) > 2 {
		aliases = splitAliases(cells[2])
	}
	set.add(&core.Candidate{
		Surface:      surface,
		CategoryHint: category,
		AliasHints:   aliases,
		Frequency:    1,
	}, true)
}

// collectFreeText extracts candidates from an unstructured line.
func (e *Extractor) collectFreeText(set *candidateSet, line string) {
	// Rule 1: bracketed alias lists claim their spans first. Japanese
	// prose has no spaces, so the regex capture runs back to the start of
	// the clause; it is trimmed to the term adjacent to the bracket and
	// only that term's span is claimed.
	remainder := line
	for _, m := range bracketAliasRe.FindAllStringSubmatchIndex(line, -1) {
		surface, offset, known := e.termBeforeBracket(line[m[2]:m[3]])
		if surface == "" {
			// Nothing term-like touches the bracket. Drop the alias list
			// and leave the preceding text for segmentation.
			remainder = blankSpan(remainder, m[3], m[1])
			continue
		}
		set.add(&core.Candidate{
			Surface:      surface,
			CategoryHint: inferCategory(surface),
			AliasHints:   splitAliases(line[m[4]:m[5]]),
			Frequency:    1,
		}, known)
		remainder = blankSpan(remainder, m[2]+offset, m[1])
	}

	// Numbered classifications span script classes (1級, 150型), so they
	// are claimed by regex before segmentation.
	for _, m := range numberedClassRe.FindAllStringIndex(remainder, -1) {
		surface := remainder[m[0]:m[1]]
		set.add(&core.Candidate{
			Surface:   surface,
			Frequency: 1,
		}, false)
		remainder = blankSpan(remainder, m[0], m[1])
	}

	// Rules 2 and 3 over the segmented remainder.
	tokens := e.segmenter.Segment(remainder)
	folded := make([]bool, len(tokens))

	for i, token := range tokens {
		if token.Class != ScriptLatin || !isAbbreviation(token.Surface) {
			continue
		}
		if j, ok := abbreviationHost(remainder, tokens, i); ok {
			set.attachAlias(tokens[j].Surface, token.Surface)
			folded[i] = true
		}
	}

	for i, token := range tokens {
		if folded[i] || token.Runes() < 2 || token.Class == ScriptDigit {
			continue
		}
		set.add(&core.Candidate{
			Surface:      token.Surface,
			CategoryHint: inferCategory(token.Surface),
			Frequency:    1,
		}, token.Known)
	}
}

// termBeforeBracket trims a pre-bracket capture to the term the alias
// list annotates: the maximal run of contiguous kanji, katakana, Latin,
// or lexicon tokens ending at the bracket. known reports whether the
// surface is a single lexicon match.
func (e *Extractor) termBeforeBracket(capture string) (surface string, offset int, known bool) {
	tokens := e.segmenter.Segment(capture)
	end := len(capture)
	start := -1
	accepted := 0
	for i := len(tokens) - 1; i >= 0; i-- {
		token := tokens[i]
		if token.End != end {
			break
		}
		if !token.Known && token.Class != ScriptKanji && token.Class != ScriptKatakana && token.Class != ScriptLatin {
			break
		}
		start = token.Start
		end = token.Start
		accepted++
	}
	if start < 0 {
		return "", 0, false
	}
	known = accepted == 1 && tokens[len(tokens)-1].Known
	return capture[start:], start, known
}

// abbreviationHost finds the longer kanji/katakana token adjacent to the
// abbreviation at index i, preferring the preceding token. Adjacency
// allows whitespace and a middle dot between the tokens.
func abbreviationHost(text string, tokens []Token, i int) (int, bool) {
	isHost := func(j int) bool {
		if j < 0 || j >= len(tokens) {
			return false
		}
		t := tokens[j]
		if t.Class != ScriptKanji && t.Class != ScriptKatakana {
			return false
		}
		return t.Runes() > tokens[i].Runes()
	}
	adjacent := func(a, b Token) bool {
		gap := strings.TrimFunc(text[a.End:b.Start], func(r rune) bool {
			return r == ' ' || r == '\t' || r == '　' || r == '・'
		})
		return gap == ""
	}

	if isHost(i-1) && adjacent(tokens[i-1], tokens[i]) {
		return i - 1, true
	}
	if isHost(i+1) && adjacent(tokens[i], tokens[i+1]) {
		return i + 1, true
	}
	return 0, false
}

// blankSpan replaces text[from:to] with spaces, preserving byte offsets.
func blankSpan(text string, from, to int) string {
	return text[:from] + strings.Repeat(" ", to-from) + text[to:]
}

// candidateSet deduplicates candidates by normalized surface, summing
// frequencies, unioning alias hints, and keeping the first category hint.
type candidateSet struct {
	order []string
	byKey map[string]*core.Candidate
	// structurally sourced and lexicon-known candidates bypass the
	// domain filter
	trusted map[string]bool
}

func newCandidateSet() *candidateSet {
	return &candidateSet{
		byKey:   make(map[string]*core.Candidate),
		trusted: make(map[string]bool),
	}
}

func (s *candidateSet) add(candidate *core.Candidate, trusted bool) {
	key := core.NormalizeKey(candidate.Surface)
	if key == "" {
		return
	}

	if existing, ok := s.byKey[key]; ok {
		existing.Frequency += candidate.Frequency
		existing.AliasHints = unionHints(existing.AliasHints, candidate.AliasHints)
		if existing.CategoryHint == "" {
			existing.CategoryHint = candidate.CategoryHint
		}
	} else {
		added := &core.Candidate{
			Surface:      candidate.Surface,
			CategoryHint: candidate.CategoryHint,
			AliasHints:   unionHints(nil, candidate.AliasHints),
			Frequency:    candidate.Frequency,
		}
		s.byKey[key] = added
		s.order = append(s.order, key)
	}
	if trusted {
		s.trusted[key] = true
	}
}

func (s *candidateSet) attachAlias(surface, alias string) {
	key := core.NormalizeKey(surface)
	if existing, ok := s.byKey[key]; ok {
		existing.AliasHints = unionHints(existing.AliasHints, []string{alias})
		return
	}
	s.add(&core.Candidate{Surface: surface, AliasHints: []string{alias}, Frequency: 1}, false)
}

// slice applies the domain filter and returns surviving candidates in
// first-seen order.
func (s *candidateSet) slice() []*core.Candidate {
	out := make([]*core.Candidate, 0, len(s.order))
	for _, key := range s.order {
		candidate := s.byKey[key]
		if !s.trusted[key] && !isDomainTerm(candidate.Surface) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func unionHints(existing, added []string) []string {
	for _, hint := range added {
		found := false
		for _, have := range existing {
			if have == hint {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, hint)
		}
	}
	return existing
}
