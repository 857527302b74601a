package core

// builtinSeed is the fixed built-in dictionary of construction-industry
// vocabulary. Entries are seeded into every registry at startup and can
// never be deleted, only enriched with additional aliases.
var builtinSeed = []struct {
	name     string
	category string
	aliases  []string
}{
	{"コンクリート", "材料", nil},
	{"鉄筋コンクリート", "構造", []string{"RC", "鉄コン"}},
	{"プレストレストコンクリート", "構造", []string{"PC"}},
	{"鉄骨鉄筋コンクリート", "構造", []string{"SRC"}},
	{"耐震構造", "構造", []string{"耐震"}},
	{"免震構造", "構造", []string{"免震"}},
	{"制震構造", "構造", []string{"制震"}},
	{"基礎工事", "施工", []string{"基礎"}},
	{"躯体工事", "施工", []string{"躯体"}},
	{"仕上工事", "施工", []string{"仕上げ"}},
	{"空調設備", "設備", []string{"空調", "エアコン"}},
	{"給排水設備", "設備", []string{"給排水"}},
	{"電気設備", "設備", []string{"電気"}},
	{"品質管理", "管理", []string{"品質"}},
	{"安全管理", "管理", []string{"安全"}},
	{"施工管理", "管理", []string{"施工"}},
}

// BuiltinTerms returns a fresh copy of the built-in seed dictionary.
// Callers own the returned slice and may mutate it freely.
func BuiltinTerms() []*Term {
	terms := make([]*Term, 0, len(builtinSeed))
	for _, seed := range builtinSeed {
		name := NormalizeKey(seed.name)
		terms = append(terms, &Term{
			Id:        IDFromContent(name),
			Name:      name,
			Category:  seed.category,
			Aliases:   NormalizeKeys(seed.aliases),
			Frequency: 0,
			Origin:    OriginBuiltin,
		})
	}
	return terms
}
