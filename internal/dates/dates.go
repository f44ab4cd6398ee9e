// Package dates normalizes the raw date/time notations used by each source
// site into one canonical (start, end) pair. Every source gets its own
// normalizer with a fixed ordered list of candidate formats; the first
// format that parses wins. A text that fails every candidate yields
// ErrUnparseable, never a zero value.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Source tags used as registry keys. Adapters report the same labels as
// their source names.
const (
	SourceIereies        = "iereiestisnychtas.com"
	SourceAptaliko       = "aptaliko.gr"
	SourceAthinorama     = "athinorama.gr"
	SourceClubber        = "clubber.gr"
	SourceMoreCom        = "more.com"
	SourceTicketmaster   = "ticketmaster.gr"
	SourceTicketservices = "ticketservices.gr"
)

// ErrUnparseable reports that a raw date text matched none of the owning
// source's candidate formats. The owning record is dropped, not persisted.
var ErrUnparseable = errors.New("unparseable date text")

// ErrUnknownSource reports a source tag with no registered normalizer.
var ErrUnknownSource = errors.New("no date normalizer registered for source")

// Range is a canonical start/end timestamp pair. Single-instant events
// carry the same value twice.
type Range struct {
	Start time.Time
	End   time.Time
}

// Normalizer parses one source's raw date text. The reference time supplies
// the current year for notations that omit it; normalizers never consult
// the wall clock themselves.
type Normalizer interface {
	Parse(raw string, ref time.Time) (Range, error)
}

// Func adapts a plain function to the Normalizer interface.
type Func func(raw string, ref time.Time) (Range, error)

// Parse implements Normalizer.
func (f Func) Parse(raw string, ref time.Time) (Range, error) {
	return f(raw, ref)
}

var registry = map[string]Normalizer{
	SourceIereies:        Func(ParseDayMonthClock),
	SourceAptaliko:       Func(ParseAptaliko),
	SourceAthinorama:     Func(ParseAthinorama),
	SourceClubber:        Func(ParseClubber),
	SourceMoreCom:        Func(ParseGreekDate),
	SourceTicketmaster:   Func(ParseTimestamp),
	SourceTicketservices: Func(ParseDateList),
}

// For returns the normalizer registered for the given source tag.
func For(source string) (Normalizer, error) {
	n, ok := registry[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	return n, nil
}

var weekdayPrefix = regexp.MustCompile(`^\p{L}+\s+`)

// ParseDayMonthClock parses weekday-prefixed "DD/MM" plus a "HH:MM" clock,
// e.g. "SUN 27/07 17:30", taking the year from ref. The weekday token is
// stripped before parsing.
func ParseDayMonthClock(raw string, ref time.Time) (Range, error) {
	text := strings.TrimSpace(raw)
	if m := weekdayPrefix.FindString(text); m != "" {
		text = strings.TrimSpace(text[len(m):])
	}

	dt, err := time.ParseInLocation("2/1 15:04", text, time.UTC)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	dt = dt.AddDate(ref.Year(), 0, 0)

	return Range{Start: dt, End: dt}, nil
}

var monthDayYearRange = regexp.MustCompile(`^([A-Za-z]{3,}\s+\d{1,2},\s+\d{4})\s*([A-Za-z]{3,}\s+\d{1,2},\s+\d{4})$`)

// ParseAptaliko tries the source's candidate formats in order: full ISO
// timestamp, a "Mon DD, YYYY" pair concatenated with no separator,
// "Mon DD, YYYY, H:MM AM/PM", and finally "Mon DD, YYYY".
func ParseAptaliko(raw string, _ time.Time) (Range, error) {
	text := strings.TrimSpace(raw)

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if dt, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			dt = dt.UTC()

			return Range{Start: dt, End: dt}, nil
		}
	}

	if m := monthDayYearRange.FindStringSubmatch(text); m != nil {
		start, err1 := time.ParseInLocation("Jan 2, 2006", normalizeMonthToken(m[1]), time.UTC)
		end, err2 := time.ParseInLocation("Jan 2, 2006", normalizeMonthToken(m[2]), time.UTC)

		if err1 == nil && err2 == nil {
			return Range{Start: start, End: end}, nil
		}

		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	for _, layout := range []string{"Jan 2, 2006, 3:04 PM", "Jan 2, 2006"} {
		if dt, err := time.ParseInLocation(layout, normalizeMonthToken(text), time.UTC); err == nil {
			return Range{Start: dt, End: dt}, nil
		}
	}

	return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

// normalizeMonthToken shortens a leading full month name ("June 25, ...")
// to the three-letter form Go's "Jan" layout token expects.
func normalizeMonthToken(s string) string {
	fields := strings.SplitN(s, " ", 2)
	if len(fields) == 2 && len(fields[0]) > 3 {
		if _, ok := englishMonths[strings.ToUpper(fields[0])]; ok {
			return fields[0][:3] + " " + fields[1]
		}
	}

	return s
}

var dayMonthToken = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)

// ParseAthinorama parses "DD/MM" followed by an optional Greek-meridiem
// clock, e.g. "27/07 9 μ.μ.". When no time token is present at all the
// event defaults to 21:00. The year comes from ref.
func ParseAthinorama(raw string, ref time.Time) (Range, error) {
	m := dayMonthToken.FindStringSubmatch(raw)
	if m == nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	clock := GreekClockTo24h(raw)

	dt, err := time.ParseInLocation("2/1 15:04", m[1]+"/"+m[2]+" "+clock, time.UTC)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	dt = dt.AddDate(ref.Year(), 0, 0)

	return Range{Start: dt, End: dt}, nil
}

var clubberText = regexp.MustCompile(`^(.+?)\s+(\d{1,2}:\d{2})\s*[–-]\s*(\d{1,2}:\d{2})$`)

// ParseClubber parses a grouped-list entry of the form
// "Thu, 28 August 23:00 – 08:00": an English weekday/day/month header plus
// an opening-hours range. When the end clock is at or before the start
// clock the event is assumed to run past midnight and the end advances by
// exactly one calendar day.
func ParseClubber(raw string, ref time.Time) (Range, error) {
	m := clubberText.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	day, err := time.ParseInLocation("Mon, 2 January", strings.TrimSpace(m[1]), time.UTC)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	day = day.AddDate(ref.Year(), 0, 0)

	start, err := withClock(day, m[2])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	end, err := withClock(day, m[3])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return Range{Start: start, End: end}, nil
}

func withClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS" with optional fractional
// seconds, which are truncated before parsing.
func ParseTimestamp(raw string, _ time.Time) (Range, error) {
	text := strings.TrimSpace(raw)
	if i := strings.IndexByte(text, '.'); i >= 0 {
		text = text[:i]
	}

	dt, err := time.ParseInLocation("2006-01-02 15:04:05", text, time.UTC)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	return Range{Start: dt, End: dt}, nil
}

// DefaultEventHour is the assumed hour of day for listings that carry
// dates with no time information.
const DefaultEventHour = 21

// ParseDateList parses a pipe-delimited list of "YYYY-MM-DD" tokens for
// multi-day listings. Each date defaults to 21:00; the first token is the
// start and the last the end. Malformed tokens are skipped; a list with no
// valid token is unparseable.
func ParseDateList(raw string, _ time.Time) (Range, error) {
	var parsed []time.Time

	for _, part := range strings.Split(raw, "|") {
		dt, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(part), time.UTC)
		if err != nil {
			continue
		}

		parsed = append(parsed, dt.Add(DefaultEventHour*time.Hour))
	}

	if len(parsed) == 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	return Range{Start: parsed[0], End: parsed[len(parsed)-1]}, nil
}
