package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateFormat selects the generated template encoding.
type TemplateFormat string

const (
	FormatXLSX TemplateFormat = "xlsx"
	FormatCSV  TemplateFormat = "csv"
)

// ParseTemplateFormat validates a format supplied by a client. Empty defaults
// to xlsx.
func ParseTemplateFormat(raw string) (TemplateFormat, error) {
	switch strings.ToLower(raw) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown template format %q", raw)
	}
}

// GenerateTemplate renders a downloadable template for the registry in the
// requested format. The output is deterministic for a given registry.
func GenerateTemplate(reg *Registry, format TemplateFormat) ([]byte, error) {
	switch format {
	case FormatCSV:
		return generateCSVTemplate(reg)
	case FormatXLSX:
		return generateXLSXTemplate(reg)
	default:
		return nil, fmt.Errorf("unknown template format %q", format)
	}
}

// TemplateFileName is the suggested download name for a generated template.
func TemplateFileName(kind EntityKind, format TemplateFormat) string {
	return fmt.Sprintf("%s_import_template.%s", kind, format)
}

// TemplateContentType is the MIME type matching a template format.
func TemplateContentType(format TemplateFormat) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func generateCSVTemplate(reg *Registry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	fields := reg.EnabledFields()
	headers := make([]string, len(fields))
	examples := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Header
		examples[i] = f.Example
	}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	if err := writer.Write(examples); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generateXLSXTemplate builds a workbook with a data sheet and an
// instructions sheet. Required column headers are highlighted and marked
// with an asterisk, enum columns carry dropdown validation.
func generateXLSXTemplate(reg *Registry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := reg.Title
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create required style: %w", err)
	}

	fields := reg.EnabledFields()
	for i, field := range fields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := field.Header
		if field.Required {
			headerText += " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if field.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(headerText)) + 6
		if width < 14 {
			width = 14
		}
		f.SetColWidth(sheetName, colName, colName, width)

		if enum := field.Validation.Enum; len(enum) > 0 {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1001", colName, colName)
			if err := dv.SetDropList(enum); err == nil {
				f.AddDataValidation(sheetName, dv)
			}
		}

		exampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, exampleCell, field.Example)
	}

	if err := writeInstructionsSheet(f, reg); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInstructionsSheet(f *excelize.File, reg *Registry) error {
	const sheet = "Instructions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", reg.Title+" Instructions")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	row := 3
	for _, note := range reg.Notes {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, "- "+note)
		row++
	}
	row++

	headers := []string{"Column", "Required", "Type", "Description"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, titleStyle)
	}
	row++

	for _, field := range reg.EnabledFields() {
		required := "no"
		if field.Required {
			required = "yes"
		}
		values := []any{field.Header, required, string(field.DataType), field.Description}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "D", "D", 60)
	return nil
}
