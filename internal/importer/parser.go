package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// MaxFileBytes caps upload size before any parsing happens.
	MaxFileBytes = 10 << 20
	// MaxDataRows caps the number of data rows per upload.
	MaxDataRows = 5000
)

var (
	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
		"02-01-2006",
		"2 Jan 2006",
		"Jan 2, 2006",
	}

	monthNames = map[string]int{
		"jan": 1, "january": 1,
		"feb": 2, "february": 2,
		"mar": 3, "march": 3,
		"apr": 4, "april": 4,
		"may": 5,
		"jun": 6, "june": 6,
		"jul": 7, "july": 7,
		"aug": 8, "august": 8,
		"sep": 9, "september": 9,
		"oct": 10, "october": 10,
		"nov": 11, "november": 11,
		"dec": 12, "december": 12,
	}

	headerNormalizer = regexp.MustCompile(`[^a-z0-9]+`)
	numberCleaner    = regexp.MustCompile(`[$€£¥,\s]|aed|usd|eur|gbp`)
)

// ParsedRow is one spreadsheet row mapped to canonical field names. Line is
// the 1-based spreadsheet row number for error reporting.
type ParsedRow struct {
	Line   int
	Fields map[string]any
}

// String returns the field as a string, or "" when absent.
func (r ParsedRow) String(name string) string {
	if v, ok := r.Fields[name].(string); ok {
		return v
	}
	return ""
}

// Int returns the field as an int64, or 0 when absent.
func (r ParsedRow) Int(name string) int64 {
	if v, ok := r.Fields[name].(int64); ok {
		return v
	}
	return 0
}

// Float returns the field as a float64, accepting integer cells, or 0.
func (r ParsedRow) Float(name string) float64 {
	switch v := r.Fields[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// Date returns the field as a time.Time, or the zero time when absent.
func (r ParsedRow) Date(name string) time.Time {
	if v, ok := r.Fields[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Tags returns the field as a tag list, or nil when absent.
func (r ParsedRow) Tags(name string) []string {
	if v, ok := r.Fields[name].([]string); ok {
		return v
	}
	return nil
}

// ParseResult is the parser output: typed rows plus per-row parse errors.
// Rows carrying errors are excluded from Rows.
type ParseResult struct {
	Rows    []ParsedRow
	Errors  []RowError
	Columns map[string]string // canonical field -> matched source header
}

// ParseUpload reads an uploaded spreadsheet against the registry. File level
// problems (unsupported format, size, row count, missing required headers)
// return a *FileError; per-row problems land in ParseResult.Errors and the
// affected rows are excluded. Parsing the same payload twice yields the same
// result.
func ParseUpload(fileName string, payload []byte, reg *Registry) (ParseResult, error) {
	result := ParseResult{Columns: map[string]string{}}

	if len(payload) == 0 {
		return result, newFileError(CodeEmptyFile, "file is empty")
	}
	if len(payload) > MaxFileBytes {
		return result, newFileError(CodeFileTooLarge, "file exceeds %d MB limit", MaxFileBytes>>20)
	}

	records, err := readTable(fileName, payload)
	if err != nil {
		return result, err
	}

	headerRow, dataRows := splitHeader(records)
	if headerRow == nil {
		return result, newFileError(CodeEmptyFile, "no header row detected")
	}
	if len(dataRows) > MaxDataRows {
		return result, newFileError(CodeTooManyRows, "file has %d data rows, limit is %d", len(dataRows), MaxDataRows)
	}

	columns, missing := matchHeaders(headerRow.cells, reg)
	if len(missing) > 0 {
		return result, newFileError(CodeMissingHeader, "required columns not found: %s", strings.Join(missing, ", "))
	}
	for _, col := range columns {
		result.Columns[col.field.Name] = col.source
	}

	for _, row := range dataRows {
		parsed, rowErrs := parseRow(row, columns)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.Rows = append(result.Rows, parsed)
	}

	return result, nil
}

type tableRow struct {
	line  int // 1-based spreadsheet line
	cells []string
}

func readTable(fileName string, payload []byte) ([]tableRow, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return readCSV(payload)
	case ".xlsx":
		return readExcel(payload)
	default:
		return nil, newFileError(CodeUnsupportedFormat, "unsupported file format %q, upload .xlsx or .csv", ext)
	}
}

func readCSV(payload []byte) ([]tableRow, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, newFileError(CodeParseError, "failed to read csv: %v", err)
	}

	rows := make([]tableRow, 0, len(records))
	for idx, record := range records {
		rows = append(rows, tableRow{line: idx + 1, cells: record})
	}
	return rows, nil
}

func readExcel(payload []byte) ([]tableRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, newFileError(CodeParseError, "failed to open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newFileError(CodeEmptyFile, "workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, newFileError(CodeParseError, "failed to read rows from xlsx: %v", err)
	}

	rows := make([]tableRow, 0, len(records))
	for idx, record := range records {
		rows = append(rows, tableRow{line: idx + 1, cells: record})
	}
	return rows, nil
}

// splitHeader takes the first non-empty row as the header and the remaining
// non-empty rows as data. Fully empty rows are skipped silently.
func splitHeader(records []tableRow) (*tableRow, []tableRow) {
	var header *tableRow
	var data []tableRow
	for i := range records {
		if rowIsEmpty(records[i].cells) {
			continue
		}
		if header == nil {
			header = &records[i]
			continue
		}
		data = append(data, records[i])
	}
	return header, data
}

func rowIsEmpty(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader strips case, whitespace and punctuation so "Unit Price",
// "unit_price" and "UNIT-PRICE:" all compare equal.
func normalizeHeader(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	return headerNormalizer.ReplaceAllString(lowered, "")
}

type columnBinding struct {
	index  int
	source string
	field  TemplateFieldConfig
}

// matchHeaders maps source columns to registry fields. Matching is fuzzy
// (normalized compare against the canonical header, the field name, then the
// aliases). When several source columns could satisfy one field the leftmost
// wins; when one source column could satisfy several fields the first field
// in registry order wins. Returns the bound columns and the canonical headers
// of required fields left unbound.
func matchHeaders(headerCells []string, reg *Registry) ([]columnBinding, []string) {
	normalized := make([]string, len(headerCells))
	for i, cell := range headerCells {
		normalized[i] = normalizeHeader(cell)
	}

	usedColumns := make(map[int]bool)
	var bindings []columnBinding
	var missing []string

	for _, field := range reg.EnabledFields() {
		keys := make([]string, 0, len(field.Aliases)+2)
		keys = append(keys, normalizeHeader(field.Header), normalizeHeader(field.Name))
		for _, alias := range field.Aliases {
			keys = append(keys, normalizeHeader(alias))
		}

		matched := -1
		for _, key := range keys {
			if key == "" {
				continue
			}
			for idx, header := range normalized {
				if usedColumns[idx] || header == "" {
					continue
				}
				if header == key {
					matched = idx
					break
				}
			}
			if matched >= 0 {
				break
			}
		}

		if matched < 0 {
			if field.Required {
				missing = append(missing, field.Header)
			}
			continue
		}

		usedColumns[matched] = true
		bindings = append(bindings, columnBinding{
			index:  matched,
			source: strings.TrimSpace(headerCells[matched]),
			field:  field,
		})
	}

	return bindings, missing
}

func parseRow(row tableRow, columns []columnBinding) (ParsedRow, []RowError) {
	parsed := ParsedRow{Line: row.line, Fields: make(map[string]any, len(columns))}
	var errs []RowError

	for _, col := range columns {
		raw := ""
		if col.index < len(row.cells) {
			raw = strings.TrimSpace(row.cells[col.index])
		}

		if raw == "" {
			if col.field.Required {
				errs = append(errs, rowError(row.line, col.field.Name, CodeRequiredField,
					"required value for %q is missing", col.field.Header))
			}
			continue
		}

		value, err := coerceCell(col.field.DataType, raw)
		if err != nil {
			code := CodeParseError
			switch col.field.DataType {
			case FieldTypeDate:
				code = CodeInvalidDate
			case FieldTypeInt, FieldTypeFloat, FieldTypeMonth:
				code = CodeInvalidNumber
			}
			rowErr := rowError(row.line, col.field.Name, code, "%v", err)
			rowErr.Value = raw
			errs = append(errs, rowErr)
			continue
		}
		parsed.Fields[col.field.Name] = value
	}

	return parsed, errs
}

func coerceCell(fieldType FieldType, raw string) (any, error) {
	switch fieldType {
	case FieldTypeString:
		return raw, nil
	case FieldTypeInt:
		return parseIntCell(raw)
	case FieldTypeFloat:
		return parseNumberCell(raw)
	case FieldTypeDate:
		return parseDateCell(raw)
	case FieldTypeMonth:
		return parseMonthCell(raw)
	case FieldTypeTags:
		return splitTags(raw), nil
	default:
		return raw, nil
	}
}

// cleanNumber strips currency symbols, thousands separators and common
// currency codes so "$1,234.56" and "AED 1,234.56" both parse.
func cleanNumber(raw string) string {
	return numberCleaner.ReplaceAllString(strings.ToLower(raw), "")
}

func parseNumberCell(raw string) (float64, error) {
	cleaned := cleanNumber(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("value %q is not a number", raw)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number", raw)
	}
	return f, nil
}

func parseIntCell(raw string) (int64, error) {
	f, err := parseNumberCell(raw)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a whole number", raw)
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("value %q is not a whole number", raw)
	}
	return int64(f), nil
}

func parseDateCell(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	// Excel cells sometimes come through as serial day counts.
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil && serial > 59 && serial < 200000 {
		if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("value %q is not a recognized date", raw)
}

// parseMonthCell accepts month numbers and month names, per the sales
// reporting templates in the wild.
func parseMonthCell(raw string) (int64, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if num, ok := monthNames[value]; ok {
		return int64(num), nil
	}
	n, err := parseIntCell(value)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a month", raw)
	}
	return n, nil
}

func splitTags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
