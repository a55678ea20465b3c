// Package drafts turns draft question files into the draft set consumed by a freeze.
//
// Supported inputs are JSON (an array, or an object with a "questions" array), YAML, and
// spreadsheets (.xlsx or .csv) whose first row names the columns. Loosely typed values are
// normalised: difficulty words map to ordinals, option lists may be plain strings, and a
// multiple-choice answer given as option text is replaced by the option id.
package drafts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/SAP-F-2025/reproducible-assessment/internal/errors"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Columns recognised in spreadsheet headers. Header matching is case-insensitive.
var Columns = []string{
	"id", "stem", "type", "options", "correct_answer", "tolerance", "topic", "difficulty",
	"isomorphic_group", "knowledge_points", "reference_outline",
}

type record map[string]any

// Load reads a draft set from r. The format is chosen by the extension of name.
func Load(name string, r io.Reader) ([]models.QuestionDraft, error) {
	ext := strings.ToLower(filepath.Ext(name))

	var (
		records []record
		err     error
	)
	switch ext {
	case ".json":
		records, err = decodeJSON(r)
	case ".yaml", ".yml":
		records, err = decodeYAML(r)
	case ".xlsx":
		records, err = decodeExcel(r)
	case ".csv":
		records, err = decodeCSV(r)
	default:
		return nil, apperrors.NewValidationError("file", "unsupported file format", ext)
	}
	if err != nil {
		return nil, err
	}

	drafts := make([]models.QuestionDraft, 0, len(records))
	for _, rec := range records {
		drafts = append(drafts, normalize(rec))
	}
	return drafts, nil
}

func decodeJSON(r io.Reader) ([]record, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("invalid JSON: %v", err), nil)
	}
	return recordsFrom(doc)
}

func decodeYAML(r io.Reader) ([]record, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("invalid YAML: %v", err), nil)
	}
	return recordsFrom(doc)
}

// recordsFrom accepts a bare list of questions or a document with a "questions" key.
func recordsFrom(doc any) ([]record, error) {
	if m, ok := doc.(map[string]any); ok {
		doc = m["questions"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, apperrors.NewValidationError("file", "expected a list of questions or an object with a questions list", nil)
	}

	records := make([]record, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("questions[%d]", i), "question must be an object", entry)
		}
		records = append(records, record(m))
	}
	return records, nil
}

func decodeExcel(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("invalid Excel file: %v", err), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return tabular(rows)
}

func decodeCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("invalid CSV: %v", err), nil)
	}
	return tabular(rows)
}

// tabular maps spreadsheet rows onto records keyed by the header row. Blank rows are skipped.
func tabular(rows [][]string) ([]record, error) {
	if len(rows) < 2 {
		return nil, apperrors.NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := headerMap["id"]; !ok {
		return nil, apperrors.NewValidationError("headers", "missing required column: id", "id")
	}

	var records []record
	for _, row := range rows[1:] {
		rec := make(record)
		blank := true
		for _, col := range Columns {
			idx, ok := headerMap[col]
			if !ok || idx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[idx])
			if value == "" {
				continue
			}
			rec[col] = value
			blank = false
		}
		if !blank {
			records = append(records, rec)
		}
	}
	return records, nil
}
