package utils

import "time"

// Brazil time (BRT, -03:00)
var brLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*3600)
}()

func NowBR() time.Time { return time.Now().In(brLoc) }

// ExtendFrom returns the instant a new period should start from: the current
// expiry when it is still in the future, otherwise now.
func ExtendFrom(now time.Time, currentExpiry *time.Time) time.Time {
	if currentExpiry != nil && currentExpiry.After(now) {
		return *currentExpiry
	}
	return now
}

// AddPeriod adds count periods ("day", "week", "month", "year") to t.
func AddPeriod(t time.Time, period string, count int) time.Time {
	if count <= 0 {
		count = 1
	}
	switch period {
	case "day":
		return t.AddDate(0, 0, count)
	case "week":
		return t.AddDate(0, 0, 7*count)
	case "year":
		return t.AddDate(count, 0, 0)
	default:
		return t.AddDate(0, count, 0)
	}
}

func FormatDisplayBR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(brLoc).Format("02/01/2006 15:04")
}
