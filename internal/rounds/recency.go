package rounds

import (
	"sort"
	"time"
)

// displayLayout is how a resolved instant is shown in list views and the
// CSV export.
const displayLayout = "Jan 2, 2006 3:04 PM MST"

// Recency is the resolved last-check state for one patient. It is
// recomputed from the raw record and the supplied clock on every call;
// nothing here is cached or persisted.
type Recency struct {
	Display   string     `json:"display"`
	Instant   *time.Time `json:"instant,omitempty"`
	Staff     string     `json:"staff"`
	IsOverdue bool       `json:"isOverdue"`
}

// noneRecency is the terminal state for a patient with no parseable
// history. Not a fault: such a patient is simply always due.
func noneRecency() Recency {
	return Recency{Display: "None", IsOverdue: true}
}

type stampedCheckIn struct {
	entry   CheckIn
	instant time.Time
}

// ResolveLast finds the most recent valid check-in and derives overdue
// status against the patient's configured interval. Entries whose
// timestamps fail to normalize are dropped, so a patient with only
// garbled history resolves identically to one with no history at all.
// Entries with exactly equal instants keep their original record order.
//
// The overdue comparison is a strict greater-than on fractional minutes:
// a check-in exactly at the interval boundary is not overdue.
func ResolveLast(p *Patient, now time.Time) Recency {
	entries := Extract(p)
	if len(entries) == 0 {
		return noneRecency()
	}

	stamped := make([]stampedCheckIn, 0, len(entries))
	for _, e := range entries {
		if t, ok := Normalize(e.Time); ok {
			stamped = append(stamped, stampedCheckIn{entry: e, instant: t})
		}
	}
	if len(stamped) == 0 {
		return noneRecency()
	}

	sort.SliceStable(stamped, func(i, j int) bool {
		return stamped[i].instant.After(stamped[j].instant)
	})

	winner := stamped[0]
	minutesSince := now.Sub(winner.instant).Minutes()

	inst := winner.instant
	return Recency{
		Display:   inst.Format(displayLayout),
		Instant:   &inst,
		Staff:     winner.entry.Staff,
		IsOverdue: minutesSince > float64(p.CheckInInterval),
	}
}

// IsOverdue reports only the overdue flag of ResolveLast.
func IsOverdue(p *Patient, now time.Time) bool {
	return ResolveLast(p, now).IsOverdue
}
