package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

func TestRegeneratePromptOrdersBackgroundBeforeWeb(t *testing.T) {
	sources := []domain.Source{{DocumentText: "2019年10月に消費税率は10%になった"}}
	web := &domain.WebSearchResult{
		Query:       "日本の消費税率 2025年 最新",
		RetrievedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		Items: []domain.SearchItem{
			{Title: "国税庁", URL: "https://www.nta.go.jp", Snippet: "標準税率10%、軽減税率8%"},
		},
	}

	prompt := RegeneratePrompt("日本の消費税率は？", sources, web)

	kb := strings.Index(prompt, "[知識1] 2019年10月")
	latest := strings.Index(prompt, "[最新1] 国税庁")
	if kb < 0 || latest < 0 {
		t.Fatalf("prompt missing contexts:\n%s", prompt)
	}
	if kb > latest {
		t.Error("knowledge-base context should come before web context")
	}
	if !strings.Contains(prompt, "2025-04-01T09:00:00Z") {
		t.Error("prompt should include web retrieval time")
	}
	if !strings.Contains(prompt, "Web検索結果を優先") {
		t.Error("prompt should instruct to prefer web context on conflict")
	}
}

func TestAdjudicationPromptNumbersSnippets(t *testing.T) {
	cited := []domain.SearchItem{
		{Title: "A", Snippet: "a"},
		{Title: "B", Snippet: "b"},
		{Title: "C", Snippet: "c"},
	}

	prompt := AdjudicationPrompt("質問", "回答そのまま", cited)

	for _, want := range []string{"[1] A: a", "[2] B: b", "[3] C: c", "回答そのまま", "質問"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPromptsWithoutContext(t *testing.T) {
	if p := AdjudicationPrompt("q", "a", nil); !strings.Contains(p, noInformation) {
		t.Error("empty cited sources should render placeholder")
	}
	if p := AnswerPrompt("q", nil); !strings.Contains(p, noInformation) {
		t.Error("empty knowledge sources should render placeholder")
	}
}
