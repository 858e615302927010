package extract

import (
	"regexp"
	"strings"
)

// GuardFunc reports whether the text surrounding a hit looks like a
// progressive-enhancement guard. It is deliberately pluggable so a stricter
// dataflow-based detector can be swapped in without touching the
// classification contract.
type GuardFunc func(context string) bool

// Matches the `if ('token' in object)` feature-detection idiom.
var guardInCheck = regexp.MustCompile(`if\s*\(\s*['"][A-Za-z_$][\w$.-]*['"]\s+in\s+[A-Za-z_$][\w$.]*`)

// DetectGuard is the default guard heuristic. It is a bounded textual check,
// not dataflow analysis: a guard placed elsewhere in the control flow is
// missed (false negative), and an unrelated `try` or `catch` near the hit
// counts (false positive). It recognizes:
//
//   - the `if ('feature' in object)` capability-check idiom
//   - a try { ... } catch construct around the hit
//   - a .catch( rejection handler on the same expression
func DetectGuard(context string) bool {
	if guardInCheck.MatchString(context) {
		return true
	}
	if i := strings.Index(context, "try"); i >= 0 && strings.Contains(context[i:], "catch") {
		return true
	}
	return strings.Contains(context, ".catch(")
}
