package rounds

import (
	"encoding/json"
	"testing"
)

func TestCheckInSetDecodeArray(t *testing.T) {
	raw := `[{"time":"a","staff":"x"},{"time":"b","staff":"y"}]`

	var set CheckInSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(set))
	}
	if set[0].Time != "a" || set[1].Time != "b" {
		t.Error("array order should be preserved")
	}
}

func TestCheckInSetDecodeKeyed(t *testing.T) {
	raw := `{"k1":{"time":"a","staff":"x"},"k2":{"time":"b","staff":"y"}}`

	var set CheckInSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(set))
	}

	// Keys carry no ordering, so compare as a set
	seen := map[string]bool{}
	for _, c := range set {
		seen[c.Time] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("Expected entries {a, b}, got %v", set)
	}
}

func TestCheckInSetDecodeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null", `null`},
		{"empty array", `[]`},
		{"empty object", `{}`},
		{"scalar", `"not a collection"`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set CheckInSet
			if err := json.Unmarshal([]byte(tt.raw), &set); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(set) != 0 {
				t.Errorf("Expected empty set, got %v", set)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	if got := Extract(nil); got != nil {
		t.Errorf("Expected nil for nil patient, got %v", got)
	}

	if got := Extract(&Patient{Name: "P"}); got != nil {
		t.Errorf("Expected nil for patient without history, got %v", got)
	}

	p := &Patient{CheckIns: CheckInSet{{Time: "a"}, {Time: "b"}}}
	got := Extract(p)
	if len(got) != 2 || got[0].Time != "a" {
		t.Errorf("Expected pass-through of stored order, got %v", got)
	}
}

func TestPatientDecodeBothShapes(t *testing.T) {
	arrayDoc := `{"name":"A","location":"Ward 1","checkInInterval":60,"checkIns":[{"time":"t1"}]}`
	keyedDoc := `{"name":"B","location":"Ward 2","checkInInterval":30,"checkIns":{"x":{"time":"t1"}}}`

	for name, doc := range map[string]string{"array": arrayDoc, "keyed": keyedDoc} {
		t.Run(name, func(t *testing.T) {
			var p Patient
			if err := json.Unmarshal([]byte(doc), &p); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(p.CheckIns) != 1 || p.CheckIns[0].Time != "t1" {
				t.Errorf("Expected one entry t1, got %v", p.CheckIns)
			}
		})
	}
}
