// Package his polls the legacy hospital information system for round
// checks recorded at bedside terminals and imports them as check-ins.
package his

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	"github.com/wardwatch/platform/internal/shared/config"
	"github.com/wardwatch/platform/internal/shared/metrics"
)

// CheckRecord is one round check row read from the HIS database.
type CheckRecord struct {
	MRN         string
	PatientName string
	Ward        string
	Staff       string
	RecordedAt  time.Time
}

// Importer receives round checks pulled from the HIS.
type Importer interface {
	ImportCheck(ctx context.Context, rec CheckRecord) error
}

// Adapter polls a SQL Server HIS instance for new round checks
type Adapter struct {
	db       *sql.DB
	cfg      config.HISConfig
	importer Importer

	running  bool
	mu       sync.RWMutex
	cancel   context.CancelFunc
	lastPoll time.Time
	wg       sync.WaitGroup
}

// New creates a new HIS adapter
func New(cfg config.HISConfig, importer Importer) *Adapter {
	return &Adapter{
		cfg:      cfg,
		importer: importer,
	}
}

// Start initializes the database connection and starts polling
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("adapter already running")
	}

	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		a.cfg.Host,
		a.cfg.Port,
		a.cfg.Database,
		a.cfg.User,
		a.cfg.Password,
	)

	if a.cfg.SSLMode != "disable" {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	a.running = true
	a.lastPoll = time.Now().Add(-a.cfg.PollInterval)

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.pollLoop(pollCtx)

	return nil
}

// Stop stops the adapter and closes the connection
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.db != nil {
		a.db.Close()
	}

	a.running = false
	return nil
}

// Health checks database connectivity
func (a *Adapter) Health(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.running {
		return fmt.Errorf("adapter not running")
	}

	return a.db.PingContext(ctx)
}

// IsConnected returns connection status
func (a *Adapter) IsConnected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running && a.db != nil
}

// pollLoop polls for new round checks
func (a *Adapter) pollLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			lastPoll := a.lastPoll
			a.lastPoll = time.Now()
			a.mu.Unlock()

			if err := a.pollChecks(ctx, lastPoll); err != nil {
				log.Printf("HIS poll failed: %v", err)
			}
		}
	}
}

// pollChecks imports round checks recorded since the last poll
func (a *Adapter) pollChecks(ctx context.Context, since time.Time) error {
	query := fmt.Sprintf(`
		SELECT
			MRN,
			PatientName,
			Ward,
			StaffName,
			RecordedAt
		FROM %s
		WHERE RecordedAt > @since
		ORDER BY RecordedAt ASC
	`, a.cfg.Table)

	rows, err := a.db.QueryContext(ctx, query, sql.Named("since", since))
	if err != nil {
		return err
	}
	defer rows.Close()

	imported := 0
	for rows.Next() {
		var rec CheckRecord
		var ward, staff sql.NullString

		err := rows.Scan(
			&rec.MRN,
			&rec.PatientName,
			&ward,
			&staff,
			&rec.RecordedAt,
		)
		if err != nil {
			log.Printf("HIS row scan failed: %v", err)
			continue
		}

		if ward.Valid {
			rec.Ward = ward.String
		}
		if staff.Valid {
			rec.Staff = staff.String
		}

		if err := a.importer.ImportCheck(ctx, rec); err != nil {
			log.Printf("HIS import failed for MRN %s: %v", rec.MRN, err)
			continue
		}
		imported++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if imported > 0 {
		metrics.RecordHISImport(imported)
	}

	return nil
}
