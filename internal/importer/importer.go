// Package importer drives the parse -> validate -> persist pipeline for
// uploaded files and keeps the audit trail per attempt.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"medinv-service/internal/parser"
	"medinv-service/internal/records"
	"medinv-service/internal/storage"
)

// Result is what the HTTP layer relays to the caller: counts, per-row
// errors, and the parser's confidence/quality verdict.
type Result struct {
	Success         bool               `json:"success"`
	Message         string             `json:"message"`
	ImportedRecords int                `json:"imported_records"`
	FailedRecords   int                `json:"failed_records"`
	Errors          []string           `json:"errors,omitempty"`
	ImportID        string             `json:"import_id,omitempty"`
	Confidence      float64            `json:"confidence,omitempty"`
	Accuracy        *parser.Assessment `json:"accuracy_assessment,omitempty"`
}

// Importer ties the parser to storage.
type Importer struct {
	parser *parser.Parser
	store  *storage.Store
	log    zerolog.Logger
}

// New builds an Importer.
func New(p *parser.Parser, s *storage.Store, logger zerolog.Logger) *Importer {
	return &Importer{parser: p, store: s, log: logger}
}

// ImportInventory parses an uploaded file as inventory data and upserts the
// validated rows. Row-level failures do not abort the import.
func (im *Importer) ImportInventory(raw []byte, filename string) Result {
	return im.run(raw, filename, parser.SchemaInventory, func(row map[string]string) error {
		rec, err := records.InventoryFromRow(row)
		if err != nil {
			return err
		}
		return im.store.UpsertInventory(rec)
	})
}

// ImportUsage parses an uploaded file as usage data and appends the
// validated rows to usage history, decrementing stock for known items.
func (im *Importer) ImportUsage(raw []byte, filename string) Result {
	return im.run(raw, filename, parser.SchemaUsage, func(row map[string]string) error {
		rec, err := records.UsageFromRow(row)
		if err != nil {
			return err
		}
		return im.store.InsertUsage(rec)
	})
}

func (im *Importer) run(raw []byte, filename string, schema parser.Schema, persist func(map[string]string) error) Result {
	importID, err := im.store.CreateImport(string(schema), filename)
	if err != nil {
		im.log.Error().Err(err).Msg("create import record")
		return Result{Success: false, Message: "import bookkeeping failed: " + err.Error()}
	}

	pr := im.parser.Parse(raw, filename, schema)
	if !pr.Success {
		_ = im.store.FinishImport(importID, storage.StatusFailed, 0, 0, pr.Error)
		return Result{
			Success:  false,
			Message:  pr.Error,
			Errors:   []string{pr.Error},
			ImportID: importID,
		}
	}

	imported, failed := 0, 0
	var rowErrors []string
	for i, row := range pr.Data {
		if err := persist(row); err != nil {
			failed++
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		imported++
	}

	status := storage.StatusCompleted
	if failed > 0 {
		status = storage.StatusCompletedWithErrors
	}
	details := ""
	if len(rowErrors) > 0 {
		if b, err := json.Marshal(rowErrors); err == nil {
			details = string(b)
		}
	}
	if err := im.store.FinishImport(importID, status, imported, failed, details); err != nil {
		im.log.Error().Err(err).Str("import_id", importID).Msg("finish import record")
	}

	im.log.Info().
		Str("import_id", importID).
		Str("schema", string(schema)).
		Int("imported", imported).
		Int("failed", failed).
		Float64("confidence", pr.Metadata.Confidence).
		Msg("import done")

	return Result{
		Success:         true,
		Message:         fmt.Sprintf("Import completed. %d records imported, %d failed.", imported, failed),
		ImportedRecords: imported,
		FailedRecords:   failed,
		Errors:          rowErrors,
		ImportID:        importID,
		Confidence:      pr.Metadata.Confidence,
		Accuracy:        pr.Metadata.Accuracy,
	}
}
