package rounds

import (
	"bytes"
	"encoding/json"
)

// CheckIn is one rounding event as stored on the patient document.
type CheckIn struct {
	Time  string `json:"time"`
	Staff string `json:"staff,omitempty"`
}

// CheckInSet holds a patient's check-ins. The store returns either an
// ordered array or a keyed object depending on how the record was
// written; both shapes decode into a flat set so nothing downstream has
// to branch on the original representation. Object keys carry no
// ordering guarantee and are discarded, so callers must not rely on
// element order here.
type CheckInSet []CheckIn

// UnmarshalJSON accepts an array, a keyed object, or null. Any other
// shape is a malformed record and decodes as empty.
func (s *CheckInSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []CheckIn
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = list
	case '{':
		var keyed map[string]CheckIn
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return err
		}
		set := make(CheckInSet, 0, len(keyed))
		for _, c := range keyed {
			set = append(set, c)
		}
		*s = set
	default:
		*s = nil
	}
	return nil
}

// Patient is the plain-data view of a patient record used by the
// rounding computations. Field presence is not guaranteed upstream; a
// zero interval means any elapsed time is overdue and a nil set means
// no check-ins.
type Patient struct {
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	CheckInInterval int        `json:"checkInInterval"`
	CheckIns        CheckInSet `json:"checkIns"`
}

// Extract returns the patient's check-ins as a flat slice. Nil-safe:
// an absent patient or absent history yields an empty result.
func Extract(p *Patient) []CheckIn {
	if p == nil || len(p.CheckIns) == 0 {
		return nil
	}
	return p.CheckIns
}
