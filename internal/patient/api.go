package patient

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wardwatch/platform/internal/rounds"
	"github.com/wardwatch/platform/internal/shared/auth"
	"github.com/wardwatch/platform/internal/shared/errors"
	"github.com/wardwatch/platform/internal/shared/events"
	"github.com/wardwatch/platform/internal/shared/metrics"
	"github.com/wardwatch/platform/internal/shared/types"
)

// Handler provides HTTP handlers for patients, the rounding dashboard,
// and the CSV export
type Handler struct {
	repo *Repository
	bus  *events.Bus
	now  func() time.Time
}

// NewHandler creates a new patient handler. The clock is injected so
// handlers stay deterministic under test.
func NewHandler(repo *Repository, bus *events.Bus) *Handler {
	return &Handler{repo: repo, bus: bus, now: time.Now}
}

// Routes registers the patient, dashboard, and export routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", h.ListPatients)
		r.Post("/", h.CreatePatient)

		r.Route("/{patientID}", func(r chi.Router) {
			r.Get("/", h.GetPatient)
			r.Put("/", h.UpdatePatient)
			r.Delete("/", h.DeletePatient)

			r.Route("/checkins", func(r chi.Router) {
				r.Get("/", h.ListCheckIns)
				r.Post("/", h.RecordCheckIn)
			})
		})
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/overdue", h.ListOverdue)
		r.Get("/activity", h.ActivityGrid)
	})

	r.Get("/export/checkins.csv", h.ExportCSV)

	return r
}

// --- Patient Handlers ---

// ListPatients lists patients, each enriched with its resolved
// last-check state
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	filter := ListPatientsFilter{
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	patients, total, err := h.repo.ListPatients(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.now()
	summaries := make([]Summary, 0, len(patients))
	for _, p := range patients {
		last := rounds.ResolveLast(p.Record(), now)
		metrics.RecordOverdueEvaluation(last.IsOverdue)
		summaries = append(summaries, Summary{Patient: p, LastCheck: last})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  summaries,
		"total": total,
	})
}

// GetPatient gets a patient by ID
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	last := rounds.ResolveLast(p.Record(), h.now())
	metrics.RecordOverdueEvaluation(last.IsOverdue)

	writeJSON(w, http.StatusOK, Summary{Patient: *p, LastCheck: last})
}

// requireManager rejects mutation requests from authenticated users
// below Manager. Requests without an authenticated user pass through;
// in production the auth middleware guarantees one is present.
func requireManager(w http.ResponseWriter, r *http.Request) bool {
	if user := auth.GetUser(r.Context()); user != nil && !user.Role.CanManagePatients() {
		writeError(w, errors.Forbidden("manager role required"))
		return false
	}
	return true
}

// CreatePatient creates a new patient record
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"name": "name is required",
		}))
		return
	}
	if req.CheckInInterval < 0 {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"checkInInterval": "interval must not be negative",
		}))
		return
	}

	p := &Patient{
		ID:              types.NewID(),
		Name:            req.Name,
		Location:        req.Location,
		CheckInInterval: req.CheckInInterval,
	}

	if err := h.repo.CreatePatient(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "rounds.patient.created", map[string]any{
		"patient_id": p.ID,
		"name":       p.Name,
		"location":   p.Location,
	})

	writeJSON(w, http.StatusCreated, p)
}

// UpdatePatient updates a patient's descriptive fields
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.CheckInInterval != nil {
		if *req.CheckInInterval < 0 {
			writeError(w, errors.Validation("validation failed", map[string]string{
				"checkInInterval": "interval must not be negative",
			}))
			return
		}
		p.CheckInInterval = *req.CheckInInterval
	}

	if err := h.repo.UpdatePatient(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeletePatient deletes a patient record
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	if err := h.repo.DeletePatient(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "rounds.patient.deleted", map[string]any{"patient_id": id})

	w.WriteHeader(http.StatusNoContent)
}

// --- Check-In Handlers ---

// RecordCheckIn logs one rounding check-in. When the client omits the
// timestamp the server stamps the entry in the store's own format so it
// round-trips through normalization.
func (h *Handler) RecordCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	var req RecordCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	staff := req.Staff
	if staff == "" {
		if user := auth.GetUser(r.Context()); user != nil {
			staff = user.Name
		}
	}

	entry := rounds.CheckIn{Staff: staff}
	if req.Time != nil {
		// Stored verbatim; unparseable values are dropped downstream,
		// never rejected here
		entry.Time = *req.Time
		if _, ok := rounds.NormalizePtr(req.Time); !ok {
			metrics.RecordUnparseableTimestamp()
		}
	} else {
		entry.Time = rounds.FormatStoreTime(h.now())
	}

	if err := h.repo.AppendCheckIn(r.Context(), id, entry); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordCheckIn("api")
	h.publish(r, "rounds.checkin.recorded", map[string]any{
		"patient_id": id,
		"time":       entry.Time,
		"staff":      entry.Staff,
	})

	writeJSON(w, http.StatusCreated, entry)
}

// ListCheckIns returns the tabular check-in history for one patient
func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := rounds.Extract(p.Record())
	history := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		row := HistoryEntry{Time: e.Time, Staff: e.Staff}
		if t, ok := rounds.Normalize(e.Time); ok {
			row.Instant = &t
		} else {
			metrics.RecordUnparseableTimestamp()
		}
		history = append(history, row)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  history,
		"total": len(history),
	})
}

// --- Dashboard Handlers ---

// ListOverdue returns the patients currently overdue for a check
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repo.ListAllPatients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.now()
	var overdue []Summary
	for _, p := range patients {
		last := rounds.ResolveLast(p.Record(), now)
		metrics.RecordOverdueEvaluation(last.IsOverdue)
		if last.IsOverdue {
			overdue = append(overdue, Summary{Patient: p, LastCheck: last})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  overdue,
		"total": len(overdue),
	})
}

// ActivityGrid returns the 24-hour rounding activity grid. The clock is
// captured once per request; the slot boundaries in the response stay
// fixed for the lifetime of the view that loaded them.
func (h *Handler) ActivityGrid(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repo.ListAllPatients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	slots := rounds.BuildSlots(h.now())

	rows := make([]ActivityRow, 0, len(patients))
	for _, p := range patients {
		row := ActivityRow{
			ID:       p.ID,
			Name:     p.Name,
			Location: p.Location,
			Slots:    make([]bool, len(slots)),
		}
		rec := p.Record()
		for i, s := range slots {
			row.Slots[i] = rounds.HasActivity(rec, s)
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots":    slots,
		"patients": rows,
	})
}

// --- Helpers ---

func (h *Handler) publish(r *http.Request, eventType string, data map[string]any) {
	if h.bus == nil {
		return
	}

	event := events.NewEvent(eventType, "patient", data)
	if user := auth.GetUser(r.Context()); user != nil {
		event = event.WithActor(user.UID)
	}

	h.bus.Publish(r.Context(), event)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
