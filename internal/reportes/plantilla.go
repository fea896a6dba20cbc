package reportes

import (
	"bytes"
	"fmt"

	"github.com/tealeg/xlsx/v3"

	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// templateRows is how many data rows get drop-list validation in the
// generated upload template.
const templateRows = 1000

// GenerateUploadTemplate builds the bulk-upload workbook: one header row
// with the canonical display field names, styled, with drop-list validation
// on the vocabulary-backed columns.
func GenerateUploadTemplate(vocab schema.Vocabulary) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Plantilla")
	if err != nil {
		return nil, fmt.Errorf("failed to create template sheet: %w", err)
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Fill = *xlsx.NewFill("solid", "FF1F4E78", "FF1F4E78")
	headerStyle.Font.Bold = true
	headerStyle.Font.Color = "FFFFFFFF"
	headerStyle.ApplyFill = true
	headerStyle.ApplyFont = true

	fields := schema.DisplayFields()
	header := sheet.AddRow()
	for _, name := range fields {
		cell := header.AddCell()
		cell.SetString(name)
		cell.SetStyle(headerStyle)
	}

	for colIdx, name := range fields {
		options, ok := vocab[name]
		if !ok || len(options) == 0 {
			continue
		}
		dv := xlsx.NewDataValidation(1, colIdx, templateRows, colIdx, true)
		if err := dv.SetDropList(options); err != nil {
			return nil, fmt.Errorf("failed to set drop list for %s: %w", name, err)
		}
		sheet.AddDataValidation(dv)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
