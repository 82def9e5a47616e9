package tutor

import "regexp"

// GatePolicy decides whether raw input should be blocked before any
// network call. Implementations are replaceable; the orchestration flow
// only depends on this interface, so a more principled classifier can be
// swapped in without touching Session.
type GatePolicy interface {
	ShouldBlock(input string) bool
}

// RegexGate is a cheap lexical heuristic for "give me the answer"
// requests. It blocks when an action verb co-occurs with a solution
// target and no explanation-seeking qualifier is present. False
// negatives are acceptable; a false positive only blocks the send with
// a notice and mutates nothing.
type RegexGate struct {
	action    *regexp.Regexp
	target    *regexp.Regexp
	qualifier *regexp.Regexp
}

// NewRegexGate builds the default gate.
func NewRegexGate() *RegexGate {
	return &RegexGate{
		action:    regexp.MustCompile(`(?i)\b(give|write|show|provide|send)\b`),
		target:    regexp.MustCompile(`(?i)\b(code|answer|solution|full)\b`),
		qualifier: regexp.MustCompile(`(?i)\b(logic|explain)\b`),
	}
}

// ShouldBlock reports whether the input resembles a direct solution
// request. The qualifier overrides the block: asking for the logic or an
// explanation is exactly what the tutor wants.
func (g *RegexGate) ShouldBlock(input string) bool {
	if g.qualifier.MatchString(input) {
		return false
	}
	return g.action.MatchString(input) && g.target.MatchString(input)
}
