package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"luxcheck/domain/standard"
)

const exportSheet = "Standards"

var exportColumns = []string{
	standard.FieldRefNo,
	standard.FieldCategory,
	standard.FieldTaskOrActivity,
	standard.FieldEmRequired,
	standard.FieldEmUpper,
	standard.FieldUniformity,
	standard.FieldRa,
	standard.FieldGlare,
	standard.FieldBackground,
	standard.FieldWall,
	standard.FieldCeiling,
	standard.FieldSpecificRequirements,
}

// ExportStandards writes requirement records to an .xlsx workbook with one row per record
func ExportStandards(path string, records []standard.RequirementRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		row := exportRow(&records[i])
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func exportRow(r *standard.RequirementRecord) []interface{} {
	row := make([]interface{}, 0, len(exportColumns))
	row = append(row, r.RefNo, r.Category, r.TaskOrActivity)
	for _, field := range standard.LightingFields {
		if v := r.Value(field); v != nil {
			row = append(row, *v)
		} else {
			row = append(row, nil)
		}
	}
	return append(row, r.SpecificRequirements)
}
