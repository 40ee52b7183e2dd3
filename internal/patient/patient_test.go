package patient

import (
	"strings"
	"testing"
	"time"

	"github.com/wardwatch/platform/internal/rounds"
	"github.com/wardwatch/platform/internal/shared/types"
)

var testNow = time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

func TestPatientRecord(t *testing.T) {
	p := &Patient{
		ID:              types.NewID(),
		Name:            "Room 12",
		Location:        "West Wing",
		CheckInInterval: 60,
		CheckIns: rounds.CheckInSet{
			{Time: rounds.FormatStoreTime(testNow.Add(-5 * time.Minute)), Staff: "B"},
		},
	}

	rec := p.Record()
	if rec.Name != "Room 12" || rec.Location != "West Wing" {
		t.Errorf("record fields not carried over: %+v", rec)
	}
	if rec.CheckInInterval != 60 {
		t.Errorf("Expected interval 60, got %d", rec.CheckInInterval)
	}
	if len(rec.CheckIns) != 1 {
		t.Fatalf("Expected 1 check-in, got %d", len(rec.CheckIns))
	}

	last := rounds.ResolveLast(rec, testNow)
	if last.IsOverdue {
		t.Error("5 minutes against a 60 minute interval should not be overdue")
	}
	if last.Staff != "B" {
		t.Errorf("Expected staff 'B', got %q", last.Staff)
	}
}

func TestPatientRecordNil(t *testing.T) {
	var p *Patient
	if rec := p.Record(); rec != nil {
		t.Errorf("Expected nil record for nil patient, got %+v", rec)
	}
}

func TestListAllDrainsEveryPage(t *testing.T) {
	// 2 full pages plus a partial third
	const total = pageSize*2 + 37

	var offsets []int
	all, err := listAll(func(limit, offset int) ([]Patient, error) {
		offsets = append(offsets, offset)
		var batch []Patient
		for i := offset; i < offset+limit && i < total; i++ {
			batch = append(batch, Patient{Name: "P"})
		}
		return batch, nil
	})
	if err != nil {
		t.Fatalf("listAll failed: %v", err)
	}

	if len(all) != total {
		t.Errorf("Expected %d patients across pages, got %d", total, len(all))
	}
	if len(offsets) != 3 || offsets[1] != pageSize || offsets[2] != 2*pageSize {
		t.Errorf("Expected offsets [0 %d %d], got %v", pageSize, 2*pageSize, offsets)
	}
}

func TestListAllExactPageBoundary(t *testing.T) {
	// Exactly one full page triggers one extra empty fetch, not an
	// infinite loop or a dropped remainder
	all, err := listAll(func(limit, offset int) ([]Patient, error) {
		if offset >= pageSize {
			return nil, nil
		}
		return make([]Patient, pageSize), nil
	})
	if err != nil {
		t.Fatalf("listAll failed: %v", err)
	}
	if len(all) != pageSize {
		t.Errorf("Expected %d patients, got %d", pageSize, len(all))
	}
}

func TestExportLine(t *testing.T) {
	p := &Patient{
		Name:            "Room 12",
		Location:        "West Wing",
		CheckInInterval: 60,
		CheckIns: rounds.CheckInSet{
			{Time: rounds.FormatStoreTime(testNow.Add(-5 * time.Minute)), Staff: "B"},
		},
	}

	line := exportLine(p, testNow)
	fields := strings.Split(line, ",")
	// the display column carries a comma of its own ("Nov 20, 2025 ..."),
	// so a row with history splits into six raw fields
	if len(fields) != 6 {
		t.Fatalf("Expected 6 raw fields, got %d: %q", len(fields), line)
	}
	if fields[0] != "Room 12" || fields[1] != "West Wing" || fields[2] != "60" {
		t.Errorf("unexpected row prefix: %q", line)
	}
	if fields[5] != "B" {
		t.Errorf("Expected staff 'B' in last column, got %q", fields[5])
	}
}

func TestExportLineNoHistory(t *testing.T) {
	p := &Patient{Name: "Room 3", Location: "ICU", CheckInInterval: 30}

	line := exportLine(p, testNow)
	if line != "Room 3,ICU,30,None," {
		t.Errorf("Expected sentinel row, got %q", line)
	}
}

func TestExportLineUnquotedCommas(t *testing.T) {
	// Embedded commas are not escaped; the row simply gains columns.
	p := &Patient{Name: "Doe, Jane", CheckInInterval: 60}

	line := exportLine(p, testNow)
	if got := len(strings.Split(line, ",")); got != 6 {
		t.Errorf("Expected 6 raw fields from an embedded comma, got %d: %q", got, line)
	}
	if !strings.HasSuffix(line, ",60,None,") {
		t.Errorf("Expected sentinel tail, got %q", line)
	}
}
