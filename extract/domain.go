package extract

import "strings"

// constructionKeywords are common components of construction-industry
// vocabulary. A free-text candidate must touch at least one keyword (or
// pass a script heuristic) to survive the domain filter.
var constructionKeywords = []string{
	"工事", "施工", "構造", "材料", "設備", "管理", "基礎", "躯体",
	"仕上げ", "配管", "配線", "防水", "断熱", "耐震", "免震", "制震",
	"鉄筋", "コンクリート", "鋼材", "木材", "石材", "タイル", "ガラス",
	"建築", "土木", "設計", "監理", "検査", "試験", "品質", "安全",
	"現場", "工程", "図面",
}

// categoryKeywords infers a category hint from term components. Checked
// in a fixed order so inference is deterministic.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"構造", []string{"鉄筋", "コンクリート", "鉄骨", "基礎", "柱", "梁", "耐震", "免震", "制震"}},
	{"設備", []string{"空調", "給排水", "電気", "配管", "配線", "消防"}},
	{"仕上げ", []string{"塗装", "タイル", "クロス", "床", "天井", "壁"}},
	{"材料", []string{"セメント", "鋼材", "木材", "石材", "ガラス"}},
	{"施工", []string{"工事", "施工", "工程", "現場", "作業"}},
	{"管理", []string{"品質", "安全", "検査", "試験"}},
}

// isDomainTerm reports whether a surface is plausibly construction
// vocabulary: it contains a domain keyword, is predominantly katakana
// (foreign technical terms), or carries a numbered classification.
func isDomainTerm(surface string) bool {
	for _, keyword := range constructionKeywords {
		if strings.Contains(surface, keyword) {
			return true
		}
	}
	if katakanaRatio(surface) > 0.7 {
		return true
	}
	return kanjiSuffixRe.MatchString(surface) ||
		performanceRe.MatchString(surface) ||
		numberedClassRe.MatchString(surface)
}

// inferCategory returns a category hint for a surface, or "" when no
// keyword matches.
func inferCategory(surface string) string {
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(surface, keyword) {
				return group.category
			}
		}
	}
	return ""
}
