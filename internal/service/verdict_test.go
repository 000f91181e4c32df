package service

import (
	"testing"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict_Labels(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.AccuracyLabel
	}{
		{"accurate", "・正確性: ○正確\n・評価コメント: 問題なし", domain.AccuracyAccurate},
		{"partial", "・正確性: △一部不正確\n・評価コメント: 税率の時期が違う", domain.AccuracyPartiallyInaccurate},
		{"inaccurate", "・正確性: ×不正確\n・評価コメント: 誤り", domain.AccuracyInaccurate},
		{"full-width colon", "正確性：△\n評価コメント：一部古い", domain.AccuracyPartiallyInaccurate},
		{"symbol only", "- 正確性: ×", domain.AccuracyInaccurate},
		{"word only", "正確性: 不正確", domain.AccuracyInaccurate},
		{"bold markdown", "**正確性**: ○ 正確\n**評価コメント**: ok", domain.AccuracyAccurate},
		{"english", "Accuracy: Partially inaccurate\nComment: outdated rate", domain.AccuracyPartiallyInaccurate},
		{"english inaccurate", "Accuracy: inaccurate", domain.AccuracyInaccurate},
		{"preamble before fields", "評価結果です。\n\n・正確性: ○正確\n・評価コメント: 良い", domain.AccuracyAccurate},
		{"numbered items", "1. 正確性: ×不正確\n2. 評価コメント: 税率が違う", domain.AccuracyInaccurate},
		{"numbered with paren", "1) 正確性：△一部不正確", domain.AccuracyPartiallyInaccurate},
		{"bracket heading", "【正確性】○正確\n【評価コメント】問題なし", domain.AccuracyAccurate},
		{"bracket heading with colon", "【正確性】：×不正確", domain.AccuracyInaccurate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Label)
		})
	}
}

func TestParseVerdict_Sections(t *testing.T) {
	text := "・正確性: △一部不正確\n・評価コメント: 2019年の情報です。\n現在も10%ですが軽減税率の説明がありません。\n・補足情報: 飲食料品は8%です。"

	got, err := ParseVerdict(text)
	require.NoError(t, err)
	assert.Equal(t, "2019年の情報です。\n現在も10%ですが軽減税率の説明がありません。", got.Commentary)
	require.NotNil(t, got.Supplement)
	assert.Equal(t, "飲食料品は8%です。", *got.Supplement)
}

func TestParseVerdict_EmptySupplement(t *testing.T) {
	for _, sup := range []string{"なし", "特になし", "", "（なし）"} {
		got, err := ParseVerdict("・正確性: ○正確\n・評価コメント: ok\n・補足情報: " + sup)
		require.NoError(t, err, sup)
		assert.Nil(t, got.Supplement, sup)
	}
}

func TestParseVerdict_MissingCommentUsesFullText(t *testing.T) {
	text := "・正確性: ○正確"
	got, err := ParseVerdict(text)
	require.NoError(t, err)
	assert.Equal(t, text, got.Commentary)
}

func TestParseVerdict_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no accuracy line", "この回答はおおむね正しいです。"},
		{"echoed template", "・正確性: ○正確 / △一部不正確 / ×不正確\n・評価コメント: ..."},
		{"no label", "・正確性: 判断できません"},
		{"negated accurate", "・正確性: 正確ではない\n・評価コメント: 税率が違う"},
		{"negated polite", "・正確性: 正確ではありません"},
		{"negated english", "Accuracy: not accurate"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVerdict(tt.text)
			var pe *domain.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.text, pe.Raw)
		})
	}
}

func TestParseVerdict_SectionLayouts(t *testing.T) {
	got, err := ParseVerdict("1. 正確性: ×不正確\n2. 評価コメント: 税率が違う\n3. 補足情報: 標準税率は10%")
	require.NoError(t, err)
	assert.Equal(t, "税率が違う", got.Commentary)
	require.NotNil(t, got.Supplement)
	assert.Equal(t, "標準税率は10%", *got.Supplement)

	got, err = ParseVerdict("【正確性】○正確\n【評価コメント】2023年の情報と一致します。\n【補足情報】なし")
	require.NoError(t, err)
	assert.Equal(t, "2023年の情報と一致します。", got.Commentary)
	assert.Nil(t, got.Supplement)
}
