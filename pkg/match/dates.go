package match

import "strings"

// NormalizeEventDate brings an event date into the canonical DD.MM.YYYY form.
// The Excel export delivers either DD.MM.YYYY already, or an ISO YYYY-MM-DD
// (sometimes with a trailing " 00:00:00" from a datetime cell). Anything else
// is kept verbatim; the value is noisy free text and must not be invented.
func NormalizeEventDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " "); i >= 0 {
		s = s[:i]
	}
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		return parts[2] + "." + parts[1] + "." + parts[0]
	}
	return s
}

// NormalizeEventTime brings an event time into the canonical HH-MM form.
// Accepted inputs: HH:MM:SS, HH:MM, HH.MM. Seconds are dropped, the separator
// becomes a hyphen.
func NormalizeEventTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ".", ":")
	if parts := strings.Split(s, ":"); len(parts) >= 2 {
		s = parts[0] + ":" + parts[1]
	}
	return strings.ReplaceAll(s, ":", "-")
}

// DateCandidates renders an event date (DD.MM.YYYY, optionally with a
// time-of-day suffix) into every encoding a source directory name might use:
// long- and short-year variants of YYYY-MM-DD, DD.MM.YYYY, DD-MM-YYYY and
// YYYYMMDD. A date that is not in dotted form is returned as the sole
// candidate; an empty date yields no candidates.
func DateCandidates(eventDate string) []string {
	eventDate = strings.TrimSpace(eventDate)
	if i := strings.Index(eventDate, " "); i >= 0 {
		eventDate = eventDate[:i]
	}
	if eventDate == "" {
		return nil
	}
	parts := strings.Split(eventDate, ".")
	if len(parts) != 3 {
		return []string{eventDate}
	}
	day, month, year := parts[0], parts[1], parts[2]

	shortYear := year
	if len(year) == 4 && strings.HasPrefix(year, "20") {
		shortYear = year[2:]
	} else if len(year) == 2 {
		year = "20" + year
	}

	return []string{
		year + "-" + month + "-" + day,
		day + "." + month + "." + year,
		day + "-" + month + "-" + year,
		year + month + day,

		shortYear + "-" + month + "-" + day,
		day + "." + month + "." + shortYear,
		day + "-" + month + "-" + shortYear,
		shortYear + month + day,
	}
}
