package rounds

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

// storeTime renders an instant the way the document store would.
func storeTime(t time.Time) string {
	return FormatStoreTime(t.UTC())
}

func TestResolveLastEmptyHistory(t *testing.T) {
	tests := []struct {
		name    string
		patient *Patient
	}{
		{"no check-ins field", &Patient{Name: "A", CheckInInterval: 60}},
		{"empty set", &Patient{Name: "B", CheckIns: CheckInSet{}}},
		{"only garbled entries", &Patient{Name: "C", CheckIns: CheckInSet{
			{Time: "garbage", Staff: "X"},
			{Time: "", Staff: "Y"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLast(tt.patient, testNow)
			if !got.IsOverdue {
				t.Error("Expected overdue for empty history")
			}
			if got.Display != "None" {
				t.Errorf("Expected display 'None', got %q", got.Display)
			}
			if got.Instant != nil {
				t.Errorf("Expected nil instant, got %v", got.Instant)
			}
			if got.Staff != "" {
				t.Errorf("Expected empty staff, got %q", got.Staff)
			}
		})
	}
}

func TestResolveLastPicksLatest(t *testing.T) {
	older := CheckIn{Time: storeTime(testNow.Add(-2 * time.Hour)), Staff: "A"}
	newer := CheckIn{Time: storeTime(testNow.Add(-5 * time.Minute)), Staff: "B"}

	// Order-independence of the max
	for name, set := range map[string]CheckInSet{
		"newest last":  {older, newer},
		"newest first": {newer, older},
	} {
		t.Run(name, func(t *testing.T) {
			p := &Patient{CheckInInterval: 60, CheckIns: set}
			got := ResolveLast(p, testNow)

			if got.Staff != "B" {
				t.Errorf("Expected winner staff 'B', got %q", got.Staff)
			}
			if got.IsOverdue {
				t.Error("5 minutes against a 60 minute interval should not be overdue")
			}
			if got.Instant == nil || !got.Instant.Equal(testNow.Add(-5*time.Minute)) {
				t.Errorf("Expected winner instant 5m ago, got %v", got.Instant)
			}
		})
	}
}

func TestResolveLastSkipsGarbledEntries(t *testing.T) {
	p := &Patient{
		CheckInInterval: 60,
		CheckIns: CheckInSet{
			{Time: "not a timestamp", Staff: "X"},
			{Time: storeTime(testNow.Add(-10 * time.Minute)), Staff: "Y"},
		},
	}

	got := ResolveLast(p, testNow)
	if got.Staff != "Y" {
		t.Errorf("Expected garbled entry to be skipped, winner %q", got.Staff)
	}
	if got.IsOverdue {
		t.Error("Expected not overdue")
	}
}

func TestOverdueBoundary(t *testing.T) {
	const interval = 60

	tests := []struct {
		name    string
		age     time.Duration
		overdue bool
	}{
		{"well within", 5 * time.Minute, false},
		{"exactly at boundary", 60 * time.Minute, false},
		{"one second past", 60*time.Minute + time.Second, true},
		{"one minute past", 61 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{
				CheckInInterval: interval,
				CheckIns:        CheckInSet{{Time: storeTime(testNow.Add(-tt.age)), Staff: "A"}},
			}
			if got := IsOverdue(p, testNow); got != tt.overdue {
				t.Errorf("age %v: IsOverdue = %v, expected %v", tt.age, got, tt.overdue)
			}
		})
	}
}

func TestZeroIntervalAlwaysOverdue(t *testing.T) {
	p := &Patient{
		// missing interval defaults to zero
		CheckIns: CheckInSet{{Time: storeTime(testNow.Add(-time.Second)), Staff: "A"}},
	}
	if !IsOverdue(p, testNow) {
		t.Error("any elapsed time should be overdue with a zero interval")
	}

	checked := &Patient{CheckIns: CheckInSet{{Time: storeTime(testNow), Staff: "A"}}}
	if IsOverdue(checked, testNow) {
		t.Error("a check-in at this very instant is not overdue even with a zero interval")
	}
}

func TestResolveLastTieKeepsRecordOrder(t *testing.T) {
	same := storeTime(testNow.Add(-time.Minute))
	p := &Patient{
		CheckInInterval: 60,
		CheckIns: CheckInSet{
			{Time: same, Staff: "first"},
			{Time: same, Staff: "second"},
		},
	}

	got := ResolveLast(p, testNow)
	if got.Staff != "first" {
		t.Errorf("equal instants should keep record order, got %q", got.Staff)
	}
}

func TestResolveLastEndToEnd(t *testing.T) {
	p := &Patient{
		Name:            "Room 12",
		CheckInInterval: 60,
		CheckIns: CheckInSet{
			{Time: storeTime(testNow.Add(-2 * time.Hour)), Staff: "A"},
			{Time: storeTime(testNow.Add(-5 * time.Minute)), Staff: "B"},
		},
	}

	got := ResolveLast(p, testNow)
	if got.Staff != "B" {
		t.Errorf("Expected staff 'B', got %q", got.Staff)
	}
	if got.IsOverdue {
		t.Error("Expected not overdue")
	}
	if got.Display == "None" || got.Display == "" {
		t.Errorf("Expected a formatted display, got %q", got.Display)
	}
}
