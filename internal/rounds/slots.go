package rounds

import "time"

// SlotWidth is the fixed width of one activity-grid window.
const SlotWidth = time.Hour

// SlotCount is the number of windows the activity grid renders.
const SlotCount = 24

// BuildSlots returns the hour-aligned slot starts covering the trailing
// day, oldest first. The last slot is the hour containing now. Callers
// capture now once per view load; slots are intentionally not refreshed
// as the session ages, so a long-lived view keeps its original "current
// hour" column.
func BuildSlots(now time.Time) []time.Time {
	current := now.Truncate(SlotWidth)
	slots := make([]time.Time, SlotCount)
	for i := range slots {
		slots[i] = current.Add(-time.Duration(SlotCount-1-i) * SlotWidth)
	}
	return slots
}

// HasActivity reports whether the patient has at least one valid
// check-in inside the half-open window [slotStart, slotStart+1h).
// Entries that fail normalization never count.
func HasActivity(p *Patient, slotStart time.Time) bool {
	end := slotStart.Add(SlotWidth)
	for _, e := range Extract(p) {
		t, ok := Normalize(e.Time)
		if !ok {
			continue
		}
		if !t.Before(slotStart) && t.Before(end) {
			return true
		}
	}
	return false
}
