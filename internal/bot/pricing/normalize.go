package pricing

import "strings"

// modelAliases maps common spellings to catalog keys. Lookup happens after
// folding, so "14 Pro Max", "14pro max" and "iPhone 14 Pro Max" all land on
// the same key.
var modelAliases = map[string]string{
	"12 pro max": "12promax",
	"13 pro max": "13promax",
	"14 pro":     "14pro",
	"14 pro max": "14promax",
	"15 pro":     "15pro",
	"15 pro max": "15promax",
	"16 pro":     "16pro",
	"16 pro max": "16promax",
}

// NormalizeModel folds free-form model text into a catalog key candidate:
// lowercase, collapsed whitespace, punctuation stripped. The caller still
// has to check the key against the catalog. Returns "" for empty input.
func NormalizeModel(s string) string {
	folded := strings.ToLower(strings.TrimSpace(s))
	folded = strings.TrimPrefix(folded, "iphone")
	folded = strings.Join(strings.Fields(folded), " ")
	if folded == "" {
		return ""
	}
	if key, ok := modelAliases[folded]; ok {
		return key
	}

	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
