package intake

import (
	"strconv"
	"strings"
)

// ParseQuantity parses a quantity reply. Only whole numbers of at least 1
// are accepted.
func ParseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

var (
	affirmatives = map[string]bool{"y": true, "yes": true, "yeah": true, "yep": true, "sure": true, "1": true, "true": true}
	negatives    = map[string]bool{"n": true, "no": true, "nope": true, "nah": true, "0": true, "false": true}
)

// ParseYesNo parses a cable-choice reply, tolerating common affirmative and
// negative spellings. The second return is false when the reply is neither.
func ParseYesNo(s string) (value, ok bool) {
	folded := strings.ToLower(strings.TrimSpace(s))
	if affirmatives[folded] {
		return true, true
	}
	if negatives[folded] {
		return false, true
	}
	return false, false
}

var skipTokens = map[string]bool{"skip": true, "none": true, "-": true}

// IsSkip reports whether a notes reply means "no notes".
func IsSkip(s string) bool {
	return skipTokens[strings.ToLower(strings.TrimSpace(s))]
}
