package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists generation records in a local SQLite file so
// history and stats survive process restarts.
type SQLiteStore struct {
	db  *sqlx.DB
	log logger.Logger
}

// NewSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func NewSQLite(path string, log logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.NewNop()
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening record store %s: %w", path, err)
	}
	// go-sqlite3 serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating record store %s: %w", path, err)
	}

	log.Debug("record store ready", logger.String("path", path))
	return &SQLiteStore{db: db, log: log}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type recordRow struct {
	ID         string    `db:"id"`
	Domain     string    `db:"domain"`
	Status     string    `db:"status"`
	Assessment []byte    `db:"assessment"`
	Structure  []byte    `db:"structure"`
	Artifact   []byte    `db:"artifact"`
	Report     []byte    `db:"report"`
	Error      string    `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	DurationNS int64     `db:"duration_ns"`
}

func (s *SQLiteStore) Save(ctx context.Context, record models.GenerationRecord) error {
	if record.ID == "" {
		return errors.New("record id required")
	}

	row, err := toRow(record)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", record.ID, err)
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO generation_records
			(id, domain, status, assessment, structure, artifact, report, error, started_at, finished_at, duration_ns)
		VALUES
			(:id, :domain, :status, :assessment, :structure, :artifact, :report, :error, :started_at, :finished_at, :duration_ns)`,
		row)
	if err != nil {
		return fmt.Errorf("saving record %s: %w", record.ID, err)
	}
	return nil
}

// List returns all records in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]models.GenerationRecord, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, domain, status, assessment, structure, artifact, report, error, started_at, finished_at, duration_ns
		FROM generation_records
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	records := make([]models.GenerationRecord, 0, len(rows))
	for _, row := range rows {
		record, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.GenerationRecord, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, domain, status, assessment, structure, artifact, report, error, started_at, finished_at, duration_ns
		FROM generation_records
		WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GenerationRecord{}, ErrNotFound
	}
	if err != nil {
		return models.GenerationRecord{}, fmt.Errorf("loading record %s: %w", id, err)
	}
	return fromRow(row)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM generation_records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

func toRow(record models.GenerationRecord) (recordRow, error) {
	row := recordRow{
		ID:         record.ID,
		Domain:     record.Domain,
		Status:     string(record.Status),
		Error:      record.Error,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		DurationNS: int64(record.Duration),
	}

	artifact, err := json.Marshal(record.Artifact)
	if err != nil {
		return recordRow{}, err
	}
	row.Artifact = artifact

	if row.Assessment, err = marshalOptional(record.Assessment); err != nil {
		return recordRow{}, err
	}
	if row.Structure, err = marshalOptional(record.Structure); err != nil {
		return recordRow{}, err
	}
	if row.Report, err = marshalOptional(record.Report); err != nil {
		return recordRow{}, err
	}
	return row, nil
}

func fromRow(row recordRow) (models.GenerationRecord, error) {
	record := models.GenerationRecord{
		ID:         row.ID,
		Domain:     row.Domain,
		Status:     models.DeploymentStatus(row.Status),
		Error:      row.Error,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		Duration:   time.Duration(row.DurationNS),
	}

	if err := json.Unmarshal(row.Artifact, &record.Artifact); err != nil {
		return models.GenerationRecord{}, err
	}
	if len(row.Assessment) > 0 {
		record.Assessment = &models.ComplianceAssessment{}
		if err := json.Unmarshal(row.Assessment, record.Assessment); err != nil {
			return models.GenerationRecord{}, err
		}
	}
	if len(row.Structure) > 0 {
		record.Structure = &models.SiteStructure{}
		if err := json.Unmarshal(row.Structure, record.Structure); err != nil {
			return models.GenerationRecord{}, err
		}
	}
	if len(row.Report) > 0 {
		record.Report = &models.TestReport{}
		if err := json.Unmarshal(row.Report, record.Report); err != nil {
			return models.GenerationRecord{}, err
		}
	}
	return record, nil
}

func marshalOptional[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
