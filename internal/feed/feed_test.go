package feed

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/wardwatch/platform/internal/shared/events"
)

func TestFeedNewestFirst(t *testing.T) {
	f := New(10)
	f.Record(events.NewEvent("rounds.checkin.recorded", "patient", map[string]any{"n": 1}))
	f.Record(events.NewEvent("rounds.patient.created", "patient", map[string]any{"n": 2}))

	recent := f.Recent()
	if len(recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recent))
	}
	if recent[0].Type != "rounds.patient.created" {
		t.Errorf("Expected newest event first, got %q", recent[0].Type)
	}
	if recent[1].Type != "rounds.checkin.recorded" {
		t.Errorf("Expected oldest event last, got %q", recent[1].Type)
	}
}

func TestFeedEvictsOldest(t *testing.T) {
	f := New(3)
	for i := 0; i < 5; i++ {
		f.Record(events.NewEvent("rounds.checkin.recorded", "patient", map[string]any{"n": strconv.Itoa(i)}))
	}

	recent := f.Recent()
	if len(recent) != 3 {
		t.Fatalf("Expected window of 3, got %d", len(recent))
	}

	// 4, 3, 2 survive; 0 and 1 were evicted
	for i, want := range []string{"4", "3", "2"} {
		data := recent[i].Data.(map[string]any)
		if data["n"] != want {
			t.Errorf("entry %d: expected n=%s, got %v", i, want, data["n"])
		}
	}
}

func TestFeedDefaultSize(t *testing.T) {
	f := New(0)
	if f.max != DefaultSize {
		t.Errorf("Expected fallback to %d, got %d", DefaultSize, f.max)
	}
}

func TestListRecent(t *testing.T) {
	f := New(10)
	f.Record(events.NewEvent("rounds.checkin.recorded", "patient", nil))

	h := NewHandler(f)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	h.ListRecent(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Data  []events.Event `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Total != 1 || len(body.Data) != 1 {
		t.Errorf("Expected one event, got total=%d len=%d", body.Total, len(body.Data))
	}
	if body.Data[0].Type != "rounds.checkin.recorded" {
		t.Errorf("unexpected event type %q", body.Data[0].Type)
	}
}
