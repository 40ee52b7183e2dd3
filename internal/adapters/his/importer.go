package his

import (
	"context"
	goerrors "errors"

	"github.com/wardwatch/platform/internal/patient"
	"github.com/wardwatch/platform/internal/rounds"
	"github.com/wardwatch/platform/internal/shared/errors"
	"github.com/wardwatch/platform/internal/shared/metrics"
	"github.com/wardwatch/platform/internal/shared/types"
)

// MRNs are stable in the HIS, so the same MRN always maps to the same
// patient ID across polls and restarts.
const idNamespace = "his-patient"

// HIS-created patients start on the standard hourly round until a
// manager adjusts them.
const defaultInterval = 60

// RepositoryImporter writes imported round checks into the patient store.
type RepositoryImporter struct {
	repo *patient.Repository
}

// NewRepositoryImporter creates an importer backed by the patient repository
func NewRepositoryImporter(repo *patient.Repository) *RepositoryImporter {
	return &RepositoryImporter{repo: repo}
}

// ImportCheck appends a HIS round check to the patient's history,
// creating the patient record on first sight of the MRN.
func (i *RepositoryImporter) ImportCheck(ctx context.Context, rec CheckRecord) error {
	id := types.NewDeterministicID(idNamespace, rec.MRN)

	entry := rounds.CheckIn{
		Time:  rounds.FormatStoreTime(rec.RecordedAt),
		Staff: rec.Staff,
	}

	err := i.repo.AppendCheckIn(ctx, id, entry)
	if goerrors.Is(err, errors.ErrNotFound) {
		p := &patient.Patient{
			ID:              id,
			Name:            rec.PatientName,
			Location:        rec.Ward,
			CheckInInterval: defaultInterval,
		}
		if err := i.repo.CreatePatient(ctx, p); err != nil {
			return err
		}
		err = i.repo.AppendCheckIn(ctx, id, entry)
	}
	if err != nil {
		return err
	}

	metrics.RecordCheckIn("his")
	return nil
}

var _ Importer = (*RepositoryImporter)(nil)
