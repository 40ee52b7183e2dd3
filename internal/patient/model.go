package patient

import (
	"time"

	"github.com/wardwatch/platform/internal/rounds"
	"github.com/wardwatch/platform/internal/shared/types"
)

// Patient is a stored patient record. The check-in history is kept in
// the document-style shape the dashboard's store produces and is
// interpreted exclusively by the rounds package.
type Patient struct {
	ID              types.ID          `json:"id"`
	Name            string            `json:"name"`
	Location        string            `json:"location"`
	CheckInInterval int               `json:"checkInInterval"`
	CheckIns        rounds.CheckInSet `json:"checkIns"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Record returns the plain-data view consumed by the rounding engine.
func (p *Patient) Record() *rounds.Patient {
	if p == nil {
		return nil
	}
	return &rounds.Patient{
		Name:            p.Name,
		Location:        p.Location,
		CheckInInterval: p.CheckInInterval,
		CheckIns:        p.CheckIns,
	}
}

// Summary is the list-view row: the record plus its resolved last-check
// state, computed fresh on every read.
type Summary struct {
	Patient
	LastCheck rounds.Recency `json:"lastCheck"`
}

// CreatePatientRequest is the request to create a patient
type CreatePatientRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=255"`
	Location        string `json:"location"`
	CheckInInterval int    `json:"checkInInterval"`
}

// UpdatePatientRequest is the request to update a patient
type UpdatePatientRequest struct {
	Name            *string `json:"name,omitempty"`
	Location        *string `json:"location,omitempty"`
	CheckInInterval *int    `json:"checkInInterval,omitempty"`
}

// RecordCheckInRequest is the request to log one rounding check-in.
// Time is optional; when absent the server stamps the entry in the
// store's own format.
type RecordCheckInRequest struct {
	Time  *string `json:"time,omitempty"`
	Staff string  `json:"staff"`
}

// HistoryEntry is one row of the tabular check-in history. Instant is
// present only when the stored timestamp normalized.
type HistoryEntry struct {
	Time    string     `json:"time"`
	Staff   string     `json:"staff"`
	Instant *time.Time `json:"instant,omitempty"`
}

// ActivityRow is one patient's 24-slot activity-grid row.
type ActivityRow struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Slots    []bool   `json:"slots"`
}

// ListPatientsFilter defines filters for listing patients
type ListPatientsFilter struct {
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
