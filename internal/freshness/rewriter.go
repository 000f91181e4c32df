package freshness

import (
	"fmt"
	"strconv"
	"strings"
)

// RewriteForLatest replaces relative time phrases with absolute years and,
// when the result still carries no explicit year, appends a freshness hint.
// Applying it to its own output does not add a second hint.
func RewriteForLatest(question string, currentYear int) string {
	this := strconv.Itoa(currentYear) + "年"
	last := strconv.Itoa(currentYear-1) + "年"

	rewritten := strings.NewReplacer(
		"今シーズン", this,
		"今年", this,
		"去年", last,
		"昨年", last,
	).Replace(question)

	if !hasYearReference(rewritten) {
		rewritten = strings.TrimRight(rewritten, " ") + fmt.Sprintf(" %d年 最新", currentYear)
	}
	return rewritten
}

func hasYearReference(text string) bool {
	return len(extractYears(text)) > 0
}
