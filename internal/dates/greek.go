package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Genitive Greek month names, uppercased and accent-free, as they appear in
// listing dates ("18 Σεπτεμβρίου"). Abbreviations like "Σεπ" are matched by
// substring containment against these full names.
var greekMonths = map[string]time.Month{
	"ΙΑΝΟΥΑΡΙΟΥ":  time.January,
	"ΦΕΒΡΟΥΑΡΙΟΥ": time.February,
	"ΜΑΡΤΙΟΥ":     time.March,
	"ΑΠΡΙΛΙΟΥ":    time.April,
	"ΜΑΙΟΥ":       time.May,
	"ΙΟΥΝΙΟΥ":     time.June,
	"ΙΟΥΛΙΟΥ":     time.July,
	"ΑΥΓΟΥΣΤΟΥ":   time.August,
	"ΣΕΠΤΕΜΒΡΙΟΥ": time.September,
	"ΟΚΤΩΒΡΙΟΥ":   time.October,
	"ΝΟΕΜΒΡΙΟΥ":   time.November,
	"ΔΕΚΕΜΒΡΙΟΥ":  time.December,
}

var englishMonths = map[string]time.Month{
	"JANUARY":   time.January,
	"FEBRUARY":  time.February,
	"MARCH":     time.March,
	"APRIL":     time.April,
	"MAY":       time.May,
	"JUNE":      time.June,
	"JULY":      time.July,
	"AUGUST":    time.August,
	"SEPTEMBER": time.September,
	"OCTOBER":   time.October,
	"NOVEMBER":  time.November,
	"DECEMBER":  time.December,
}

// foldGreek strips tonos/dialytika accents after uppercasing so site text
// like "Σεπτεμβρίου" matches the table keys. ΐ and ΰ carry both accents and
// have no single uppercase form, so ToUpper leaves them as-is; they fold
// here in lowercase ("Μαΐου" must reach "ΜΑΙΟΥ").
var foldGreek = strings.NewReplacer(
	"Ά", "Α", "Έ", "Ε", "Ή", "Η", "Ί", "Ι", "Ό", "Ο", "Ύ", "Υ", "Ώ", "Ω",
	"Ϊ", "Ι", "Ϋ", "Υ",
	"ΐ", "Ι", "ΰ", "Υ",
)

func foldMonthToken(token string) string {
	// Uppercasing first maps ά to Ά etc., so one accent table suffices.
	return foldGreek.Replace(strings.ToUpper(token))
}

// greekMonth resolves a full genitive month name to its number.
func greekMonth(token string) (time.Month, bool) {
	m, ok := greekMonths[foldMonthToken(token)]

	return m, ok
}

// Calendar order, for deterministic abbreviation matching.
var greekMonthNames = []string{
	"ΙΑΝΟΥΑΡΙΟΥ", "ΦΕΒΡΟΥΑΡΙΟΥ", "ΜΑΡΤΙΟΥ", "ΑΠΡΙΛΙΟΥ",
	"ΜΑΙΟΥ", "ΙΟΥΝΙΟΥ", "ΙΟΥΛΙΟΥ", "ΑΥΓΟΥΣΤΟΥ",
	"ΣΕΠΤΕΜΒΡΙΟΥ", "ΟΚΤΩΒΡΙΟΥ", "ΝΟΕΜΒΡΙΟΥ", "ΔΕΚΕΜΒΡΙΟΥ",
}

// FindGreekMonth resolves a month token by prefix against the Greek month
// table, so the abbreviation "Νοε" matches "ΝΟΕΜΒΡΙΟΥ". Prefix matching
// keeps short tokens unambiguous where containment would not be.
func FindGreekMonth(token string) (time.Month, bool) {
	folded := foldMonthToken(token)
	if folded == "" {
		return 0, false
	}

	for i, name := range greekMonthNames {
		if strings.HasPrefix(name, folded) {
			return time.Month(i + 1), true
		}
	}

	return 0, false
}

var greekClock = regexp.MustCompile(`(\d{1,2})(?:[:.](\d{2}))?\s*(π\.μ\.|μ\.μ\.)`)

// GreekClockTo24h converts a Greek-meridiem time expression ("9 μ.μ.",
// "11.30 π.μ.") found anywhere in s to a 24-hour "HH:MM" clock. When no
// time token is present at all it falls back to 21:00.
func GreekClockTo24h(s string) string {
	m := greekClock.FindStringSubmatch(s)
	if m == nil {
		return "21:00"
	}

	hour, _ := strconv.Atoi(m[1])

	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch {
	case m[3] == "μ.μ." && hour != 12:
		hour += 12
	case m[3] == "π.μ." && hour == 12:
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseGreekDate parses the Greek day/month-name date grammar, four
// sub-forms in order of specificity:
//
//	"18 Σεπτεμβρίου"      single day, month name
//	"Κυρ 18/9"            single day, numeric DD/MM
//	"5 - 6 Σεπτεμβρίου"   same-month range
//	"12 & 13 September"   same-month range, English month
//	"12 Νοε - 3 Δεκ"      cross-month range, abbreviated month names
//
// In the cross-month form the end year advances by one when the resolved
// end month number is below the start month number (a range crossing the
// year boundary). The year comes from ref.
func ParseGreekDate(raw string, ref time.Time) (Range, error) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	parts := strings.Fields(text)
	year := ref.Year()

	switch {
	case len(parts) == 2 && !strings.Contains(parts[1], "/"):
		day, err := strconv.Atoi(parts[0])
		if err != nil {
			break
		}

		month, ok := greekMonth(parts[1])
		if !ok {
			break
		}

		dt := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		return Range{Start: dt, End: dt}, nil

	case len(parts) == 2 && strings.Contains(parts[1], "/"):
		dm := strings.SplitN(parts[1], "/", 2)

		day, err1 := strconv.Atoi(dm[0])
		month, err2 := strconv.Atoi(dm[1])

		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			break
		}

		dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

		return Range{Start: dt, End: dt}, nil

	case len(parts) == 4 && isRangeDash(parts[1]):
		startDay, err1 := strconv.Atoi(parts[0])
		endDay, err2 := strconv.Atoi(parts[2])

		month, ok := greekMonth(parts[3])
		if err1 != nil || err2 != nil || !ok {
			break
		}

		return Range{
			Start: time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, month, endDay, 0, 0, 0, 0, time.UTC),
		}, nil

	case len(parts) == 4 && parts[1] == "&":
		startDay, err1 := strconv.Atoi(parts[0])
		endDay, err2 := strconv.Atoi(parts[2])

		month, ok := englishMonths[strings.ToUpper(parts[3])]
		if err1 != nil || err2 != nil || !ok {
			break
		}

		return Range{
			Start: time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, month, endDay, 0, 0, 0, 0, time.UTC),
		}, nil

	case len(parts) == 5 && isRangeDash(parts[2]):
		startDay, err1 := strconv.Atoi(parts[0])
		endDay, err2 := strconv.Atoi(parts[3])

		startMonth, ok1 := FindGreekMonth(parts[1])
		endMonth, ok2 := FindGreekMonth(parts[4])

		if err1 != nil || err2 != nil || !ok1 || !ok2 {
			break
		}

		endYear := year
		if endMonth < startMonth {
			endYear++
		}

		return Range{
			Start: time.Date(year, startMonth, startDay, 0, 0, 0, 0, time.UTC),
			End:   time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

func isRangeDash(token string) bool {
	return token == "-" || token == "–"
}
