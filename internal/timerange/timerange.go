package timerange

import (
	"regexp"
	"strconv"
	"time"
)

var tokenRe = regexp.MustCompile(`^(\d+)([hd])$`)

// Supported lookback magnitudes. Anything else is ignored, not rejected.
var (
	allowedHours = map[int]struct{}{1: {}, 6: {}, 12: {}, 24: {}}
	allowedDays  = map[int]struct{}{7: {}, 30: {}}
)

// Parse maps a compact range token such as "24h" or "7d" to the inclusive
// lower bound it denotes relative to now. Absent, malformed, and unsupported
// tokens all mean "no filter": ok is false and the request proceeds unbounded.
func Parse(token string, now time.Time) (cutoff time.Time, ok bool) {
	m := tokenRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	var hours int
	switch m[2] {
	case "h":
		if _, allowed := allowedHours[n]; !allowed {
			return time.Time{}, false
		}
		hours = n
	case "d":
		if _, allowed := allowedDays[n]; !allowed {
			return time.Time{}, false
		}
		hours = n * 24
	}

	return now.Add(-time.Duration(hours) * time.Hour), true
}
