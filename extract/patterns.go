package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexical patterns for candidate detection, from the construction-domain
// vocabulary conventions: parenthesized alias lists, kanji compounds with
// a domain suffix, numbered classifications, and performance nouns.
var (
	// 術語（別名1、別名2） or term (alias1, alias2)
	bracketAliasRe = regexp.MustCompile(`(\S+?)[（(]([^（）()]+)[）)]`)

	// 2+ kanji followed by a construction suffix
	kanjiSuffixRe = regexp.MustCompile(`[\p{Han}]{2,}(工事|施工|構造|材料|設備|管理)`)

	// Numbered classifications and dimensioned specs: 1級, 3号, 150型...
	numberedClassRe = regexp.MustCompile(`[0-9０-９]+(級|種|号|型|階|mm|cm|m|kg|t|N|Pa|MPa)`)

	// Performance nouns: 耐久性, 強度, 含水率...
	performanceRe = regexp.MustCompile(`[\p{Han}]{2,}[性度率量値]`)
)

// Structural line markers. Comment lines are skipped entirely; headings
// set the category for following list items and table rows.
var commentMarkers = []string{"//", ";", "%"}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, marker := range commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(trimmed, "#")), true
}

func listItemText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return strings.TrimSpace(trimmed[2:]), true
	}
	return "", false
}

func tableCells(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") || strings.HasPrefix(trimmed, "|---") {
		return nil, false
	}
	if !strings.HasPrefix(trimmed, "|") {
		return nil, false
	}
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cell := strings.TrimSpace(part)
		if cell == "" || strings.HasPrefix(cell, "---") {
			continue
		}
		cells = append(cells, cell)
	}
	return cells, len(cells) > 0
}

// splitAliases splits a parenthesized alias list on both fullwidth and
// halfwidth separators.
func splitAliases(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == '，' || r == '/'
	})
	aliases := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			aliases = append(aliases, trimmed)
		}
	}
	return aliases
}

// isAbbreviation reports whether a surface looks like a Latin
// abbreviation token (RC, SRC, MPa): 2-4 Latin characters starting with
// an uppercase letter.
func isAbbreviation(surface string) bool {
	n := utf8.RuneCountInString(surface)
	if n < 2 || n > 4 {
		return false
	}
	for i, r := range surface {
		if r >= utf8.RuneSelf || !unicode.IsLetter(r) {
			return false
		}
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// katakanaRatio returns the fraction of runes that are katakana.
func katakanaRatio(s string) float64 {
	total, kana := 0, 0
	for _, r := range s {
		total++
		if classOf(r) == ScriptKatakana {
			kana++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(kana) / float64(total)
}
