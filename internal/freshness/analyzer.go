// Package freshness detects stale year references in answers and rewrites
// questions so that a web search targets current information.
package freshness

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

// yearPattern matches a four-digit year followed by a calendar year, season
// or fiscal/academic year marker. All three denote the same calendar year.
var yearPattern = regexp.MustCompile(`([0-9]{4})(?:年度|年|シーズン)`)

const (
	msgLatestYear = "この情報は %d年 のデータを含んでいます"
	msgNoYear     = "情報の時点は特定できませんでした"
)

// Analyze scans the answer and source texts for explicit year references and
// compares the most recent one against currentYear.
func Analyze(answer string, sources []string, currentYear int) domain.DateInfo {
	text := strings.Join(append([]string{answer}, sources...), " ")
	years := extractYears(text)

	info := domain.DateInfo{
		FoundYears:  years,
		CurrentYear: currentYear,
		Message:     msgNoYear,
	}
	if len(years) > 0 {
		latest := years[0]
		info.LatestYear = &latest
		info.MightBeOutdated = latest < currentYear
		info.Message = fmt.Sprintf(msgLatestYear, latest)
	}
	return info
}

// extractYears returns the distinct years referenced in text, newest first.
func extractYears(text string) []int {
	seen := make(map[int]struct{})
	for _, loc := range yearPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		// A longer digit run such as "12019年" is not a year reference.
		if start > 0 && isDigit(text[start-1]) {
			continue
		}
		y, err := strconv.Atoi(text[start:end])
		if err != nil {
			continue
		}
		seen[y] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
