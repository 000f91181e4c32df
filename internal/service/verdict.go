package service

import (
	"strings"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

type ParsedVerdict struct {
	Label      domain.AccuracyLabel
	Commentary string
	Supplement *string
}

type verdictField int

const (
	fieldNone verdictField = iota
	fieldAccuracy
	fieldComment
	fieldSupplement
)

// Longer prefixes first so 評価コメント wins over コメント.
var verdictFields = []struct {
	prefix string
	field  verdictField
}{
	{"正確性", fieldAccuracy},
	{"accuracy", fieldAccuracy},
	{"評価コメント", fieldComment},
	{"コメント", fieldComment},
	{"comment", fieldComment},
	{"補足情報", fieldSupplement},
	{"補足", fieldSupplement},
	{"supplement", fieldSupplement},
}

var (
	partialMarkers    = []string{"△", "一部不正確", "partially inaccurate", "partially-inaccurate"}
	inaccurateMarkers = []string{"×", "✕", "不正確", "inaccurate"}
	accurateMarkers   = []string{"○", "〇", "◯", "正確", "accurate"}
	emptySupplements  = []string{"なし", "特になし", "（なし）", "(なし)", "none", "n/a", "-"}
	// A negated label such as 正確ではない would otherwise match its opposite.
	negations = []string{"ではない", "ではありません", "でない", "じゃない", "not accurate", "not correct", "not inaccurate"}
)

// ParseVerdict extracts the accuracy label, commentary and supplement from
// a model response written in the bulleted verdict format. It returns a
// *domain.ParseError when no single label can be identified.
func ParseVerdict(text string) (*ParsedVerdict, error) {
	sections := map[verdictField][]string{}
	current := fieldNone

	for _, raw := range strings.Split(text, "\n") {
		line := trimBullet(raw)
		if f, value, ok := matchField(trimNumbering(line)); ok {
			current = f
			sections[f] = append(sections[f], value)
			continue
		}
		if current == fieldComment || current == fieldSupplement {
			sections[current] = append(sections[current], line)
		}
	}

	accuracy, ok := sections[fieldAccuracy]
	if !ok {
		return nil, &domain.ParseError{Raw: text, Reason: "accuracy line not found"}
	}
	label, err := classifyLabel(strings.Join(accuracy, " "))
	if err != nil {
		err.Raw = text
		return nil, err
	}

	parsed := &ParsedVerdict{
		Label:      label,
		Commentary: joinLines(sections[fieldComment]),
	}
	if parsed.Commentary == "" {
		parsed.Commentary = strings.TrimSpace(text)
	}
	if sup := joinLines(sections[fieldSupplement]); sup != "" && !isEmptySupplement(sup) {
		parsed.Supplement = &sup
	}
	return parsed, nil
}

// classifyLabel checks the partial marker first because 一部不正確 contains
// 不正確, and 不正確 contains 正確.
func classifyLabel(value string) (domain.AccuracyLabel, *domain.ParseError) {
	rest := strings.ToLower(value)
	if containsAny(rest, negations) {
		return "", &domain.ParseError{Reason: "negated accuracy label in " + strings.TrimSpace(value)}
	}

	partial := containsAny(rest, partialMarkers)
	rest = removeAll(rest, partialMarkers)
	inaccurate := containsAny(rest, inaccurateMarkers)
	rest = removeAll(rest, inaccurateMarkers)
	accurate := containsAny(rest, accurateMarkers)

	var labels []domain.AccuracyLabel
	if accurate {
		labels = append(labels, domain.AccuracyAccurate)
	}
	if partial {
		labels = append(labels, domain.AccuracyPartiallyInaccurate)
	}
	if inaccurate {
		labels = append(labels, domain.AccuracyInaccurate)
	}

	switch len(labels) {
	case 1:
		return labels[0], nil
	case 0:
		return "", &domain.ParseError{Reason: "no accuracy label in " + strings.TrimSpace(value)}
	default:
		return "", &domain.ParseError{Reason: "ambiguous accuracy label in " + strings.TrimSpace(value)}
	}
}

func matchField(line string) (verdictField, string, bool) {
	lower := strings.ToLower(line)
	for _, vf := range verdictFields {
		if !strings.HasPrefix(lower, vf.prefix) {
			continue
		}
		rest := strings.TrimLeft(line[len(vf.prefix):], " *")
		for _, sep := range []string{":", "：", "】"} {
			if strings.HasPrefix(rest, sep) {
				return vf.field, strings.TrimSpace(strings.TrimLeft(rest[len(sep):], ":： ")), true
			}
		}
	}
	return fieldNone, "", false
}

func trimBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, b := range []string{"・", "-", "•", "【"} {
		if strings.HasPrefix(line, b) {
			line = strings.TrimPrefix(line, b)
			break
		}
	}
	return strings.TrimSpace(strings.TrimLeft(line, "* "))
}

// trimNumbering strips a list number such as "1." or "2)" or "3、".
func trimNumbering(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 {
		return line
	}
	for _, sep := range []string{".", ")", "、", "．", "）"} {
		if strings.HasPrefix(line[i:], sep) {
			return trimBullet(line[i+len(sep):])
		}
	}
	return line
}

func joinLines(lines []string) string {
	var kept []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func isEmptySupplement(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range emptySupplements {
		if s == e {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func removeAll(s string, markers []string) string {
	for _, m := range markers {
		s = strings.ReplaceAll(s, m, "")
	}
	return s
}
