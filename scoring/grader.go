package scoring

import "strings"

// NormalizeAnswer strips all whitespace and uppercases. A missing answer
// normalizes to the empty string.
func NormalizeAnswer(answer string) string {
	return strings.ToUpper(strings.Join(strings.Fields(answer), ""))
}

// AnswersMatch grades a submitted answer against the canonical one. Both
// sides are normalized first; an empty normalized form on either side is
// never a match, so empty-vs-empty cannot grade as correct.
func AnswersMatch(submitted, correct string) bool {
	s := NormalizeAnswer(submitted)
	c := NormalizeAnswer(correct)
	if s == "" || c == "" {
		return false
	}
	return s == c
}
