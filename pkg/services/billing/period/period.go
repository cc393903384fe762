package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
)

var (
	monthYearPattern = regexp.MustCompile(`\b([A-Za-z]+)\.?,?\s*(\d{4})\b`)
	wordPattern      = regexp.MustCompile(`[A-Za-z]+`)
	yearPattern      = regexp.MustCompile(`\b\d{4}\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var layouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
}

// Normalize turns a free form billing period into a canonical token.
// It never fails: input it cannot place on a calendar is returned trimmed,
// with a zero timestamp.
func Normalize(s string) domain.BillingPeriodToken {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return domain.BillingPeriodToken{}
	}

	for _, m := range monthYearPattern.FindAllStringSubmatch(trimmed, -1) {
		if month, ok := lookupMonth(m[1]); ok {
			if year, err := strconv.Atoi(m[2]); err == nil {
				return token(year, month)
			}
		}
	}

	if parts := strings.Split(trimmed, "-"); len(parts) >= 2 {
		month, hasMonth := firstMonth(parts[0])
		yearText := yearPattern.FindString(parts[1])
		if hasMonth && yearText != "" {
			if year, err := strconv.Atoi(yearText); err == nil {
				return token(year, month)
			}
		}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return FromTime(t)
		}
	}

	return domain.BillingPeriodToken{Label: trimmed}
}

// FromTime returns the token of the month containing t.
func FromTime(t time.Time) domain.BillingPeriodToken {
	return token(t.Year(), t.Month())
}

// MonthRange lists every month from through to, both inclusive.
// Undated or inverted bounds give nil.
func MonthRange(from, to domain.BillingPeriodToken) []domain.BillingPeriodToken {
	if !from.Dated() || !to.Dated() || from.TimestampMs > to.TimestampMs {
		return nil
	}
	start := time.UnixMilli(from.TimestampMs).UTC()
	end := time.UnixMilli(to.TimestampMs).UTC()

	var out []domain.BillingPeriodToken
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		out = append(out, FromTime(cur))
	}
	return out
}

func token(year int, month time.Month) domain.BillingPeriodToken {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return domain.BillingPeriodToken{
		Label:       first.Format("Jan 2006"),
		TimestampMs: first.UnixMilli(),
	}
}

func lookupMonth(word string) (time.Month, bool) {
	m, ok := months[strings.ToLower(word)]
	return m, ok
}

func firstMonth(s string) (time.Month, bool) {
	for _, w := range wordPattern.FindAllString(s, -1) {
		if m, ok := lookupMonth(w); ok {
			return m, true
		}
	}
	return 0, false
}
