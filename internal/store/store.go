package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bizsaver/internal/logger"
	"bizsaver/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	categoria TEXT NOT NULL,
	tipo_documento TEXT NOT NULL DEFAULT '',
	fornitore_attuale TEXT NOT NULL,
	spesa_mensile_attuale REAL NOT NULL DEFAULT 0,
	spesa_annua_attuale REAL NOT NULL DEFAULT 0,
	miglior_risparmio_annuo REAL NOT NULL DEFAULT 0,
	alternatives TEXT NOT NULL DEFAULT '[]',
	filename TEXT NOT NULL DEFAULT '',
	last_monitored_at TEXT,
	has_new_better_offer INTEGER NOT NULL DEFAULT 0,
	new_best_saving REAL,
	monitor_best_alternative TEXT
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Store persists analyses and their monitor state on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert stores a new analysis and returns its id.
func (s *Store) Insert(a *models.Analysis) (int64, error) {
	alts, err := json.Marshal(a.Alternatives)
	if err != nil {
		return 0, fmt.Errorf("marshal alternatives: %w", err)
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`INSERT INTO analyses
		(created_at, categoria, tipo_documento, fornitore_attuale,
		 spesa_mensile_attuale, spesa_annua_attuale, miglior_risparmio_annuo,
		 alternatives, filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt.Format(time.RFC3339), string(a.Categoria), a.TipoDocumento,
		a.FornitoreAttuale, a.SpesaMensileAttuale, a.SpesaAnnuaAttuale,
		a.MigliorRisparmioAnnuo, string(alts), a.Filename)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

// Delete removes an analysis by id.
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis %d: %w", id, err)
	}
	return nil
}

// List returns the most recent analyses, newest first.
func (s *Store) List(limit int) ([]models.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// All returns every stored analysis in insertion order, for the monitor pass.
func (s *Store) All() ([]models.Analysis, error) {
	rows, err := s.db.Query(selectColumns + ` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load analyses: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Get returns one analysis by id, or sql.ErrNoRows.
func (s *Store) Get(id int64) (models.Analysis, error) {
	row := s.db.QueryRow(selectColumns+` WHERE id = ?`, id)
	return scanOne(row)
}

// UpsertMonitor applies one monitor pass as per-row updates. Each row is
// independent: a failing row is logged and skipped, the rest of the batch
// proceeds. Returns the number of rows applied.
func (s *Store) UpsertMonitor(updates []models.MonitorUpdate) int {
	applied := 0
	for _, u := range updates {
		var bestJSON interface{}
		if u.MonitorBestAlternative != nil {
			data, err := json.Marshal(u.MonitorBestAlternative)
			if err != nil {
				logger.Error("store: marshal monitor alternative", map[string]interface{}{
					"id": u.ID, "error": err.Error(),
				})
				continue
			}
			bestJSON = string(data)
		}
		var saving interface{}
		if u.NewBestSaving != nil {
			saving = *u.NewBestSaving
		}
		_, err := s.db.Exec(`UPDATE analyses SET
			last_monitored_at = ?,
			has_new_better_offer = ?,
			new_best_saving = ?,
			monitor_best_alternative = ?
			WHERE id = ?`,
			u.LastMonitoredAt.Format(time.RFC3339), boolToInt(u.HasNewBetterOffer),
			saving, bestJSON, u.ID)
		if err != nil {
			logger.Error("store: monitor upsert failed", map[string]interface{}{
				"id": u.ID, "error": err.Error(),
			})
			continue
		}
		applied++
	}
	return applied
}

const selectColumns = `SELECT id, created_at, categoria, tipo_documento,
	fornitore_attuale, spesa_mensile_attuale, spesa_annua_attuale,
	miglior_risparmio_annuo, alternatives, filename, last_monitored_at,
	has_new_better_offer, new_best_saving, monitor_best_alternative
	FROM analyses`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOne(r rowScanner) (models.Analysis, error) {
	var (
		a           models.Analysis
		createdAt   string
		categoria   string
		alts        string
		monitoredAt sql.NullString
		hasBetter   int
		saving      sql.NullFloat64
		bestJSON    sql.NullString
	)
	err := r.Scan(&a.ID, &createdAt, &categoria, &a.TipoDocumento,
		&a.FornitoreAttuale, &a.SpesaMensileAttuale, &a.SpesaAnnuaAttuale,
		&a.MigliorRisparmioAnnuo, &alts, &a.Filename, &monitoredAt,
		&hasBetter, &saving, &bestJSON)
	if err != nil {
		return models.Analysis{}, err
	}
	a.Categoria = models.CostCategory(categoria)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		a.CreatedAt = t
	}
	if alts != "" {
		if err := json.Unmarshal([]byte(alts), &a.Alternatives); err != nil {
			logger.Warn("store: corrupt alternatives json", map[string]interface{}{"id": a.ID})
		}
	}
	if monitoredAt.Valid {
		if t, err := time.Parse(time.RFC3339, monitoredAt.String); err == nil {
			a.LastMonitoredAt = &t
		}
	}
	a.HasNewBetterOffer = hasBetter != 0
	if saving.Valid {
		v := saving.Float64
		a.NewBestSaving = &v
	}
	if bestJSON.Valid && bestJSON.String != "" {
		var best models.SuggestedAlternative
		if err := json.Unmarshal([]byte(bestJSON.String), &best); err == nil {
			a.MonitorBestAlternative = &best
		}
	}
	return a, nil
}

func scanAll(rows *sql.Rows) ([]models.Analysis, error) {
	var out []models.Analysis
	for rows.Next() {
		a, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
