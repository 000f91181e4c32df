package freshness

import (
	"reflect"
	"testing"
)

func TestAnalyzeNoYears(t *testing.T) {
	texts := []string{
		"",
		"消費税は商品やサービスに課される税です",
		"2019 was a good year",
		"第12019年",
	}

	for _, text := range texts {
		info := Analyze(text, nil, 2025)
		if len(info.FoundYears) != 0 {
			t.Errorf("Analyze(%q).FoundYears = %v, want empty", text, info.FoundYears)
		}
		if info.LatestYear != nil {
			t.Errorf("Analyze(%q).LatestYear = %d, want nil", text, *info.LatestYear)
		}
		if info.MightBeOutdated {
			t.Errorf("Analyze(%q).MightBeOutdated = true, want false", text)
		}
		if info.Message != msgNoYear {
			t.Errorf("Analyze(%q).Message = %q, want %q", text, info.Message, msgNoYear)
		}
		if info.CurrentYear != 2025 {
			t.Errorf("Analyze(%q).CurrentYear = %d, want 2025", text, info.CurrentYear)
		}
	}
}

func TestAnalyzeSortsAndDeduplicates(t *testing.T) {
	answer := "2021年に改正され、2019年度の予算では"
	sources := []string{"2023シーズンの成績", "2021年の記録", "2019年10月から"}

	info := Analyze(answer, sources, 2025)

	want := []int{2023, 2021, 2019}
	if !reflect.DeepEqual(info.FoundYears, want) {
		t.Fatalf("FoundYears = %v, want %v", info.FoundYears, want)
	}
	if info.LatestYear == nil || *info.LatestYear != 2023 {
		t.Fatalf("LatestYear = %v, want 2023", info.LatestYear)
	}
	if info.Message != "この情報は 2023年 のデータを含んでいます" {
		t.Errorf("Message = %q", info.Message)
	}
}

func TestAnalyzeMightBeOutdated(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		currentYear int
		want        bool
	}{
		{"older year", "2023年の情報", 2025, true},
		{"current year", "2025年の情報", 2025, false},
		{"future year", "2026年度の計画", 2025, false},
		{"no year", "情報", 2025, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text, nil, tt.currentYear).MightBeOutdated
			if got != tt.want {
				t.Errorf("MightBeOutdated = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := Analyze("2019年に10%へ", []string{"2014年に8%"}, 2025)
	b := Analyze("2019年に10%へ", []string{"2014年に8%"}, 2025)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Analyze not idempotent: %+v vs %+v", a, b)
	}
}

func TestAnalyzeAdjacentYears(t *testing.T) {
	info := Analyze("2019年2020年", nil, 2025)
	want := []int{2020, 2019}
	if !reflect.DeepEqual(info.FoundYears, want) {
		t.Errorf("FoundYears = %v, want %v", info.FoundYears, want)
	}
}
