package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Serial 25569 on the Windows spreadsheet epoch is 1970-01-01.
const excelEpochSerial = 25569

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	isoDayRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	numericRe  = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)
)

// NormalizeAlias reduces a raw spreadsheet category to its lookup key:
// uppercased, accents stripped, everything outside A-Z0-9 removed.
// "CE-TCN12", "ce tcn 12" and "Cê-TCN-12" all collapse to "CETCN12".
func NormalizeAlias(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if decomposed, _, err := transform.String(stripMarks, s); err == nil {
		s = decomposed
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToNumberHours parses an hours cell. Numbers pass through when finite;
// strings accept a comma decimal separator. Negative values are correction
// entries and must survive. ok is false for anything unparseable.
func ToNumberHours(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return ToNumberHours(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.Replace(strings.TrimSpace(n), ",", ".", 1)
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ParseDay turns a cell value into an ISO day string. It accepts native
// dates, spreadsheet date serials (converted through UTC calendar fields so
// no timezone can shift the day) and date strings. ok is false when nothing
// matches; callers drop the row rather than substituting a default.
func ParseDay(v any) (string, bool) {
	switch d := v.(type) {
	case nil:
		return "", false
	case time.Time:
		if d.IsZero() {
			return "", false
		}
		return d.Format("2006-01-02"), true
	case float64:
		return serialToDay(d)
	case float32:
		return serialToDay(float64(d))
	case int:
		return serialToDay(float64(d))
	case int64:
		return serialToDay(float64(d))
	case string:
		return parseDayString(d)
	default:
		return "", false
	}
}

func serialToDay(serial float64) (string, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return "", false
	}
	secs := math.Round((serial - excelEpochSerial) * 86400)
	return time.Unix(int64(secs), 0).UTC().Format("2006-01-02"), true
}

func parseDayString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if isoDayRe.MatchString(s) {
		return s, true
	}
	// Raw workbook cells deliver date serials as plain numbers.
	if numericRe.MatchString(s) {
		serial, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return "", false
		}
		return serialToDay(serial)
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"02/01/2006",
		"02/01/2006 15:04",
		"2-Jan-06",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
