// Package parser infers a canonical inventory/usage schema from messy
// tabular files. It extracts candidate tables from several container
// formats, maps arbitrary column names onto canonical fields with fuzzy
// matching, and scores how trustworthy the inferred mapping is.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Failure taxonomy. Everything is converted to the ParseResult contract at
// the Parse boundary; these let per-method failures stay inspectable.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyOrUnparsable = errors.New("no usable table")
	ErrMissingCapability = errors.New("format support not available in this deployment")
	ErrSchemaIncomplete  = errors.New("mandatory field not found")
)

// Metadata describes a successful (or diagnosable) parse.
type Metadata struct {
	Source          string            `json:"source"`
	TotalRecords    int               `json:"total_records"`
	ColumnsMapped   int               `json:"columns_mapped"`
	Confidence      float64           `json:"confidence"`
	FieldMapping    map[string]string `json:"field_mapping"`
	MappingScores   map[string]int    `json:"mapping_scores,omitempty"`
	OriginalColumns []string          `json:"original_columns"`
	Accuracy        *Assessment       `json:"accuracy_assessment,omitempty"`
}

// Result is the sole value exchanged with the import collaborator.
type Result struct {
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
	Data     []map[string]string `json:"data,omitempty"`
	Metadata *Metadata           `json:"metadata,omitempty"`
}

// Parser is the stateless orchestrator. Safe for concurrent use: every
// Parse call operates only on its own inputs.
type Parser struct {
	log             zerolog.Logger
	documentFormats bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutDocumentFormats disables .pdf/.docx support; uploads in those
// formats get a controlled failure instead of being parsed.
func WithoutDocumentFormats() Option {
	return func(p *Parser) { p.documentFormats = false }
}

// New builds a Parser.
func New(logger zerolog.Logger, opts ...Option) *Parser {
	p := &Parser{log: logger, documentFormats: true}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse takes raw bytes plus the declared filename and target schema and
// returns the unified result. It never panics past this boundary: any
// unexpected failure in extraction, mapping or scoring becomes a
// success=false result.
func (p *Parser) Parse(raw []byte, filename string, schema Schema) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error().Interface("panic", rec).Str("file", filename).Msg("parse panicked")
			res = failure(fmt.Errorf("failed to parse %s: internal error", filename))
		}
	}()

	dict, err := DictionaryFor(schema)
	if err != nil {
		return failure(err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".tsv":
		return p.single(extractDelimited, raw, dict)
	case ".xlsx":
		return p.single(extractXLSX, raw, dict)
	case ".xls":
		return p.single(extractXLS, raw, dict)
	case ".txt":
		return p.single(extractText, raw, dict)
	case ".pdf":
		if !p.documentFormats {
			return failure(fmt.Errorf("%w: PDF", ErrMissingCapability))
		}
		return p.multi(extractPDF(raw), dict)
	case ".docx":
		if !p.documentFormats {
			return failure(fmt.Errorf("%w: Word document", ErrMissingCapability))
		}
		return p.single(extractDOCX, raw, dict)
	default:
		return p.autoDetect(raw, filename, dict)
	}
}

// single runs a one-candidate extractor through the full pipeline.
func (p *Parser) single(extract func([]byte) (*Table, error), raw []byte, dict *Dictionary) Result {
	t, err := extract(raw)
	if err != nil {
		return failure(err)
	}
	return p.process(t, dict)
}

// multi scores every method's candidate independently and keeps the result
// with the highest confidence. The selection criterion here is downstream
// confidence, not raw table size.
func (p *Parser) multi(candidates []extraction, dict *Dictionary) Result {
	var best Result
	haveBest := false
	var lastErr error
	for _, ex := range candidates {
		if ex.Err != nil {
			p.log.Debug().Err(ex.Err).Msg("extraction method failed")
			lastErr = ex.Err
			continue
		}
		r := p.process(ex.Table, dict)
		if !r.Success {
			if !haveBest && best.Error == "" {
				best = r // keep diagnostics from a mapped-but-incomplete attempt
			}
			continue
		}
		if !haveBest || r.Metadata.Confidence > best.Metadata.Confidence {
			best = r
			haveBest = true
		}
	}
	if haveBest || best.Error != "" {
		return best
	}
	if lastErr != nil {
		return failure(fmt.Errorf("no tables could be extracted: %w", lastErr))
	}
	return failure(fmt.Errorf("%w: no tables could be extracted", ErrEmptyOrUnparsable))
}

// autoDetect handles unrecognized extensions: delimited parsing first, then
// unstructured text, before declaring the format unsupported.
func (p *Parser) autoDetect(raw []byte, filename string, dict *Dictionary) Result {
	if t, err := extractDelimited(raw); err == nil {
		if r := p.process(t, dict); r.Success {
			return r
		}
	}
	if t, err := extractText(raw); err == nil {
		if r := p.process(t, dict); r.Success {
			return r
		}
	}
	return failure(fmt.Errorf("%w: could not auto-detect format of %s", ErrUnsupportedFormat, filename))
}

// process runs mapping, scoring and assessment over one candidate table.
func (p *Parser) process(raw *Table, dict *Dictionary) Result {
	t := raw.normalize()
	if len(t.Headers) == 0 || len(t.Rows) == 0 {
		return failure(fmt.Errorf("%w: table has no data rows", ErrEmptyOrUnparsable))
	}

	mapping := MapFields(t.Headers, dict)
	confidence := Confidence(mapping, dict, t)

	if !mapping.Has(ItemNameField) {
		// diagnosable failure: report the columns we saw so the caller can
		// fix the headers
		return Result{
			Success: false,
			Error:   fmt.Sprintf("%v: no column maps to %s; found columns: %s", ErrSchemaIncomplete, ItemNameField, strings.Join(t.Headers, ", ")),
			Metadata: &Metadata{
				Source:          t.Source,
				Confidence:      confidence,
				FieldMapping:    mapping.Columns,
				MappingScores:   mapping.Scores,
				OriginalColumns: t.Headers,
			},
		}
	}

	assessment := Assess(confidence, mapping, dict, t)
	data := t.records(mapping)

	return Result{
		Success: true,
		Data:    data,
		Metadata: &Metadata{
			Source:          t.Source,
			TotalRecords:    len(data),
			ColumnsMapped:   len(mapping.Columns),
			Confidence:      confidence,
			FieldMapping:    mapping.Columns,
			MappingScores:   mapping.Scores,
			OriginalColumns: t.Headers,
			Accuracy:        &assessment,
		},
	}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
