package bot

import (
	"strings"
	"time"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// cityZones maps common city spellings to IANA zone names, so /tz dubai
// works alongside /tz Asia/Dubai. Multi-word cities use underscores in the
// command argument.
var cityZones = map[string]string{
	"dubai":       "Asia/Dubai",
	"abu dhabi":   "Asia/Dubai",
	"riyadh":      "Asia/Riyadh",
	"cairo":       "Africa/Cairo",
	"karachi":     "Asia/Karachi",
	"delhi":       "Asia/Kolkata",
	"mumbai":      "Asia/Kolkata",
	"london":      "Europe/London",
	"paris":       "Europe/Paris",
	"new york":    "America/New_York",
	"chicago":     "America/Chicago",
	"los angeles": "America/Los_Angeles",
}

// resolveZone turns a /tz argument into a canonical IANA zone name plus
// its loaded location. Returns domain.ErrUnknownTimezone when the argument
// is neither a known city nor a loadable zone.
func resolveZone(arg string) (string, *time.Location, error) {
	name := arg
	folded := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(arg), "_", " "))
	if zone, ok := cityZones[folded]; ok {
		name = zone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", nil, domain.ErrUnknownTimezone
	}
	return name, loc, nil
}
