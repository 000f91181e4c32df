package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

const answerPrompt = `あなたは学習支援AIです。以下の知識ベースの情報だけを使って、学習者の質問にわかりやすく答えてください。
情報が不足している場合は、その旨を正直に伝えてください。

【質問】
%s

【知識ベースの情報】
%s

回答:`

const regeneratePrompt = `あなたは学習支援AIです。最新のWeb検索結果を優先して回答してください。

【元の質問】
%s

【背景: 知識ベースの情報】
%s

【最新: Web検索結果】（%s 取得）
%s

【回答の指針】
1. Web検索結果の最新情報を優先してください
2. 知識ベースの情報は背景説明に使ってください
3. 各記述がどの情報源（[知識n] または [最新n]）に基づくかを明記してください
4. 知識ベースとWeb検索結果が矛盾する場合は、Web検索結果を優先してください

回答:`

const adjudicationPrompt = `あなたは情報の正確性を評価する専門家です。

【元の質問】
%s

【AIの回答】
%s

【検索で見つかった情報】
%s

【タスク】
1. 元の回答が正確かどうか評価してください
2. 検索結果と矛盾する点があれば指摘してください
3. より正確な情報があれば補足してください

【回答形式】
・正確性: ○正確 / △一部不正確 / ×不正確 のいずれか一つ
・評価コメント: （理由を簡潔に）
・補足情報: （あれば。なければ「なし」）`

const noInformation = "（該当する情報はありません）"

// AnswerPrompt builds the first-pass knowledge-base answer prompt.
func AnswerPrompt(question string, sources []domain.Source) string {
	return fmt.Sprintf(answerPrompt, question, knowledgeContext(sources))
}

// RegeneratePrompt places the knowledge-base context first as background and
// the web results second as the most recent information.
func RegeneratePrompt(question string, sources []domain.Source, web *domain.WebSearchResult) string {
	var sb strings.Builder
	for i, item := range web.Items {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[最新%d] %s\n%s\n出典: %s", i+1, item.Title, item.Snippet, item.URL)
	}
	webContext := sb.String()
	if webContext == "" {
		webContext = noInformation
	}

	return fmt.Sprintf(regeneratePrompt,
		question,
		knowledgeContext(sources),
		web.RetrievedAt.Format(time.RFC3339),
		webContext,
	)
}

// AdjudicationPrompt numbers the cited snippets 1..n.
func AdjudicationPrompt(question, answer string, cited []domain.SearchItem) string {
	var sb strings.Builder
	for i, item := range cited {
		fmt.Fprintf(&sb, "[%d] %s: %s\n", i+1, item.Title, item.Snippet)
	}
	summary := strings.TrimRight(sb.String(), "\n")
	if summary == "" {
		summary = noInformation
	}
	return fmt.Sprintf(adjudicationPrompt, question, answer, summary)
}

func knowledgeContext(sources []domain.Source) string {
	if len(sources) == 0 {
		return noInformation
	}
	parts := make([]string, 0, len(sources))
	for i, s := range sources {
		parts = append(parts, fmt.Sprintf("[知識%d] %s", i+1, s.DocumentText))
	}
	return strings.Join(parts, "\n\n")
}
