// Package rounds implements the patient-rounding engine: parsing the
// loosely formatted check-in timestamps the document store emits,
// resolving each patient's most recent valid check-in, deciding overdue
// status against the per-patient interval, and bucketing check-ins into
// the hourly slots the activity grid renders.
//
// Every operation is a pure function of its inputs plus a caller-supplied
// clock value. Nothing in this package blocks, caches, or mutates shared
// state.
package rounds

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// utcOffset matches a trailing fixed-offset marker like "UTC-5" or "UTC+10".
var utcOffset = regexp.MustCompile(`\s*UTC([+-])(\d{1,2})\s*$`)

// layouts are tried in order after substitution. The store's server-side
// formatter produces the first form; the rest cover values written by
// older clients and the HIS import.
var layouts = []string{
	"January 2, 2006 3:04:05 PM -0700",
	"January 2, 2006 3:04 PM -0700",
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006 3:04 PM",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
}

// Normalize parses one raw check-in timestamp into an instant. The store
// formats timestamps for humans ("November 20, 2025 at 12:55:25 AM UTC-5"),
// so the " at " filler is dropped and a trailing UTC±N marker is rewritten
// to a numeric ±hhmm offset (UTC-5 becomes -0500) so the wall-clock
// fields are read in that offset, not in UTC with a relabeled zone.
// Unparseable input is a normal, expected condition and reports ok=false
// rather than an error.
func Normalize(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	s = strings.ReplaceAll(s, " at ", " ")
	if m := utcOffset.FindStringSubmatch(s); m != nil {
		hours, err := strconv.Atoi(m[2])
		if err != nil || hours > 23 {
			return time.Time{}, false
		}
		s = utcOffset.ReplaceAllLiteralString(s, "") + fmt.Sprintf(" %s%02d00", m[1], hours)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizePtr is Normalize for optional fields. A nil pointer reports
// ok=false.
func NormalizePtr(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	return Normalize(*raw)
}

// FormatStoreTime renders an instant in the store's human-readable form,
// e.g. "November 20, 2025 at 12:55:25 AM UTC-5". Output round-trips
// through Normalize. Sub-hour zone offsets are truncated to whole hours.
func FormatStoreTime(t time.Time) string {
	_, offset := t.Zone()
	return fmt.Sprintf("%s at %s UTC%+d",
		t.Format("January 2, 2006"),
		t.Format("3:04:05 PM"),
		offset/3600,
	)
}
