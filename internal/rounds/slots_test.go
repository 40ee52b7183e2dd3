package rounds

import (
	"testing"
	"time"
)

func TestBuildSlotsShape(t *testing.T) {
	nows := []time.Time{
		time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC),
		time.Date(2025, time.November, 20, 12, 59, 59, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 30, 0, 0, time.UTC),
	}

	for _, now := range nows {
		t.Run(now.Format(time.RFC3339), func(t *testing.T) {
			slots := BuildSlots(now)

			if len(slots) != SlotCount {
				t.Fatalf("Expected %d slots, got %d", SlotCount, len(slots))
			}

			for i, s := range slots {
				if !s.Equal(s.Truncate(time.Hour)) {
					t.Errorf("slot %d not hour-aligned: %v", i, s)
				}
				if i > 0 {
					if got := s.Sub(slots[i-1]); got != time.Hour {
						t.Errorf("slot %d is %v after previous, expected 1h", i, got)
					}
				}
			}

			last := slots[len(slots)-1]
			if last.After(now) {
				t.Errorf("last slot start %v is after now %v", last, now)
			}
			if !last.After(now.Add(-time.Hour)) {
				t.Errorf("last slot start %v is more than an hour before now %v", last, now)
			}
		})
	}
}

func TestHasActivity(t *testing.T) {
	slotStart := time.Date(2025, time.November, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"at slot start", slotStart, true},
		{"mid slot", slotStart.Add(30 * time.Minute), true},
		{"last second", slotStart.Add(time.Hour - time.Second), true},
		{"at exclusive upper bound", slotStart.Add(time.Hour), false},
		{"before slot", slotStart.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{CheckIns: CheckInSet{{Time: FormatStoreTime(tt.at), Staff: "A"}}}
			if got := HasActivity(p, slotStart); got != tt.want {
				t.Errorf("HasActivity = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestHasActivityIgnoresGarbledEntries(t *testing.T) {
	slotStart := time.Date(2025, time.November, 20, 9, 0, 0, 0, time.UTC)

	p := &Patient{CheckIns: CheckInSet{{Time: "garbage", Staff: "A"}}}
	if HasActivity(p, slotStart) {
		t.Error("garbled entries must never count as activity")
	}

	if HasActivity(nil, slotStart) {
		t.Error("nil patient has no activity")
	}
}

func TestHasActivityAcrossOffsets(t *testing.T) {
	slotStart := time.Date(2025, time.November, 20, 9, 0, 0, 0, time.UTC)

	// 4:30 AM UTC-5 is 9:30 AM UTC, inside the slot
	p := &Patient{CheckIns: CheckInSet{{Time: "November 20, 2025 at 4:30:00 AM UTC-5"}}}
	if !HasActivity(p, slotStart) {
		t.Error("offset timestamps should be compared as absolute instants")
	}
}
