package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain japanese unchanged", "鉄筋コンクリート", "鉄筋コンクリート"},
		{"latin lowercased", "RC", "rc"},
		{"full-width latin folded", "ＲＣ", "rc"},
		{"half-width katakana folded", "ｺﾝｸﾘｰﾄ", "コンクリート"},
		{"full-width digits folded", "１２３型", "123型"},
		{"whitespace trimmed", "  基礎工事\t", "基礎工事"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"hiragana preserved", "しあげ", "しあげ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.raw))
		})
	}
}

func TestNormalizeKey_Collisions(t *testing.T) {
	// Width and case variants of the same spelling must land on one key.
	variants := []string{"RC", "rc", "Ｒｃ", "ＲＣ"}
	want := NormalizeKey(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, NormalizeKey(v), "variant %q", v)
	}
}

func TestNormalizeKeys(t *testing.T) {
	t.Run("drops empties and duplicates", func(t *testing.T) {
		got := NormalizeKeys([]string{"RC", " ", "ＲＣ", "鉄コン", "rc"})
		assert.Equal(t, []string{"rc", "鉄コン"}, got)
	})

	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, NormalizeKeys(nil))
	})
}
