package metrics

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Metricas"

var exportHeader = []any{"ID", "Fecha", "Total llamadas", "Promedio duración (s)", "Satisfacción cliente"}

// WriteXLSX renders metrics as a single-sheet workbook, one row per metric.
func WriteXLSX(rows []Metric) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, m := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var sat any
		if m.CustomerSatisfaction != nil {
			sat = *m.CustomerSatisfaction
		}
		row := []any{m.ID, m.Date.String(), m.TotalCalls, m.AverageDuration, sat}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "E", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
