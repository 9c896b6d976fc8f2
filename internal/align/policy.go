package align

import (
	"fmt"
	"strings"
)

// Policy selects how candidates are compared and accepted.
type Policy int

const (
	// PolicySimilarity ranks candidates by similarity alone and accepts the
	// best one when it reaches the threshold or the words match exactly.
	PolicySimilarity Policy = iota
	// PolicyAnchor prefers candidates whose first and last characters match.
	// An anchored 1:1 pair is accepted immediately without combination search,
	// and any anchored best candidate is accepted regardless of threshold.
	PolicyAnchor
)

func (p Policy) String() string {
	switch p {
	case PolicySimilarity:
		return "similarity"
	case PolicyAnchor:
		return "anchor"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy. Empty input selects
// PolicySimilarity.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "similarity":
		return PolicySimilarity, nil
	case "anchor", "first-last", "first_last":
		return PolicyAnchor, nil
	default:
		return PolicySimilarity, fmt.Errorf("unknown alignment policy %q (want similarity or anchor)", value)
	}
}

// better reports whether c should replace best. Comparisons are strict, so
// the first candidate found wins ties.
func (p Policy) better(c, best candidate) bool {
	if p == PolicyAnchor {
		if c.anchor != best.anchor {
			return c.anchor
		}
	}
	return c.similarity > best.similarity
}

// anchorMatch reports whether two non-empty strings share their first and
// last rune.
func anchorMatch(a, b string) bool {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return false
	}
	return ra[0] == rb[0] && ra[len(ra)-1] == rb[len(rb)-1]
}
