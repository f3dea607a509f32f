// Package storage persists normalized inventory and usage records plus an
// audit row per import attempt. Pure-Go SQLite, no CGO.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"medinv-service/internal/records"
)

// Import statuses.
const (
	StatusProcessing          = "processing"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ImportRecord is one audit row from import_history.
type ImportRecord struct {
	ImportID        string `json:"import_id"`
	ImportType      string `json:"import_type"`
	Filename        string `json:"filename"`
	Status          string `json:"status"`
	ImportedRecords int    `json:"imported_records"`
	FailedRecords   int    `json:"failed_records"`
	ErrorDetails    string `json:"error_details,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// Store wraps the database handle. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			current_stock INTEGER NOT NULL,
			min_stock_level INTEGER DEFAULT 50,
			max_stock_level INTEGER DEFAULT 1000,
			cost_per_unit REAL NOT NULL,
			supplier TEXT,
			expiration_risk TEXT DEFAULT 'Low',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS usage_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_name TEXT NOT NULL,
			quantity_used INTEGER NOT NULL,
			usage_date DATE NOT NULL,
			department TEXT,
			cost REAL,
			notes TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS import_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id TEXT NOT NULL UNIQUE,
			import_type TEXT NOT NULL,
			filename TEXT NOT NULL,
			status TEXT NOT NULL,
			imported_records INTEGER DEFAULT 0,
			failed_records INTEGER DEFAULT 0,
			error_details TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// UpsertInventory updates an existing item by name or inserts a new one.
func (s *Store) UpsertInventory(rec records.Inventory) error {
	_, err := s.db.Exec(`
		INSERT INTO inventory
			(item_name, category, current_stock, min_stock_level, max_stock_level,
			 cost_per_unit, supplier, expiration_risk)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_name) DO UPDATE SET
			category = excluded.category,
			current_stock = excluded.current_stock,
			min_stock_level = excluded.min_stock_level,
			max_stock_level = excluded.max_stock_level,
			cost_per_unit = excluded.cost_per_unit,
			supplier = excluded.supplier,
			expiration_risk = excluded.expiration_risk,
			updated_at = CURRENT_TIMESTAMP`,
		rec.ItemName, rec.Category, rec.CurrentStock, rec.MinStockLevel,
		rec.MaxStockLevel, rec.CostPerUnit, rec.Supplier, rec.ExpirationRisk)
	return err
}

// InsertUsage appends a usage row. Cost is derived from the item's current
// unit cost when the item is known, and stock is decremented when there is
// enough of it.
func (s *Store) InsertUsage(rec records.Usage) error {
	var cost float64
	known := true
	err := s.db.QueryRow(`SELECT cost_per_unit FROM inventory WHERE item_name = ?`, rec.ItemName).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		known = false
	} else if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO usage_history (item_name, quantity_used, usage_date, department, cost, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ItemName, rec.QuantityUsed, rec.UsageDate, rec.Department,
		float64(rec.QuantityUsed)*cost, rec.Notes)
	if err != nil {
		return err
	}

	if known {
		_, err = s.db.Exec(`
			UPDATE inventory
			SET current_stock = current_stock - ?, updated_at = CURRENT_TIMESTAMP
			WHERE item_name = ? AND current_stock >= ?`,
			rec.QuantityUsed, rec.ItemName, rec.QuantityUsed)
	}
	return err
}

// GetInventoryItem fetches one item by name.
func (s *Store) GetInventoryItem(name string) (records.Inventory, error) {
	var rec records.Inventory
	var supplier sql.NullString
	err := s.db.QueryRow(`
		SELECT item_name, category, current_stock, min_stock_level,
		       max_stock_level, cost_per_unit, supplier, expiration_risk
		FROM inventory WHERE item_name = ?`, name).
		Scan(&rec.ItemName, &rec.Category, &rec.CurrentStock, &rec.MinStockLevel,
			&rec.MaxStockLevel, &rec.CostPerUnit, &supplier, &rec.ExpirationRisk)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	rec.Supplier = supplier.String
	return rec, nil
}

// ListInventory returns every item, alphabetical by name.
func (s *Store) ListInventory() ([]records.Inventory, error) {
	rows, err := s.db.Query(`
		SELECT item_name, category, current_stock, min_stock_level,
		       max_stock_level, cost_per_unit, supplier, expiration_risk
		FROM inventory ORDER BY item_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Inventory
	for rows.Next() {
		var rec records.Inventory
		var supplier sql.NullString
		if err := rows.Scan(&rec.ItemName, &rec.Category, &rec.CurrentStock,
			&rec.MinStockLevel, &rec.MaxStockLevel, &rec.CostPerUnit,
			&supplier, &rec.ExpirationRisk); err != nil {
			return nil, err
		}
		rec.Supplier = supplier.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateImport records the start of an import attempt and returns its id.
func (s *Store) CreateImport(importType, filename string) (string, error) {
	id := fmt.Sprintf("%s_%s_%s", importType, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	_, err := s.db.Exec(`
		INSERT INTO import_history (import_id, import_type, filename, status)
		VALUES (?, ?, ?, ?)`, id, importType, filename, StatusProcessing)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishImport records the outcome of an import attempt.
func (s *Store) FinishImport(id, status string, imported, failed int, errorDetails string) error {
	_, err := s.db.Exec(`
		UPDATE import_history
		SET status = ?, imported_records = ?, failed_records = ?,
		    error_details = ?, updated_at = CURRENT_TIMESTAMP
		WHERE import_id = ?`, status, imported, failed, errorDetails, id)
	return err
}

// ImportHistory lists recent import attempts, newest first.
func (s *Store) ImportHistory(limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT import_id, import_type, filename, status, imported_records,
		       failed_records, COALESCE(error_details, ''), created_at, updated_at
		FROM import_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ImportID, &r.ImportType, &r.Filename, &r.Status,
			&r.ImportedRecords, &r.FailedRecords, &r.ErrorDetails,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetImport fetches one import attempt by id.
func (s *Store) GetImport(id string) (ImportRecord, error) {
	var r ImportRecord
	err := s.db.QueryRow(`
		SELECT import_id, import_type, filename, status, imported_records,
		       failed_records, COALESCE(error_details, ''), created_at, updated_at
		FROM import_history WHERE import_id = ?`, id).
		Scan(&r.ImportID, &r.ImportType, &r.Filename, &r.Status,
			&r.ImportedRecords, &r.FailedRecords, &r.ErrorDetails,
			&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}
