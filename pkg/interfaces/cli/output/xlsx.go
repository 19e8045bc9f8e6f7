package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomview/pkg/application/dto"
)

var linesColumnWidths = []float64{10, 6, 24, 30, 10, 10, 6, 10, 12, 8, 12, 8}

// WriteXLSX writes a workbook with a "BOM" sheet and, when the result carries
// operations, an "Operations" sheet.
func WriteXLSX(w io.Writer, result *dto.BOMResult, precision int32) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "BOM"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	if err := writeHeader(f, sheet, LinesHeader, headerStyle); err != nil {
		return err
	}

	for i, line := range result.Lines {
		row := []any{
			line.ID,
			line.Level,
			strings.Repeat("  ", line.Level) + line.ItemID,
			deref(line.Description),
			RoundNumber(line.Quantity, precision),
			RoundNumber(line.Total, precision),
			deref(line.UOM),
			RoundNumber(line.UnitCost, precision),
			RoundNumber(line.TotalCost, precision),
			line.MethodType,
			line.ItemType,
			deref(line.Version),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	summaryRow := len(result.Lines) + 2
	summary := []any{
		"Total", "", fmt.Sprintf("Lines: %d", result.Summary.Lines), "", "", "", "", "",
		RoundNumber(result.Summary.MaterialCost, precision),
	}
	if err := setRow(f, sheet, summaryRow, summary); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(LinesHeader))
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%s%d", last, summaryRow), summaryStyle); err != nil {
		return err
	}

	for i, width := range linesColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	if result.Summary.Operations > 0 {
		if err := writeOperationsSheet(f, result, precision, headerStyle); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeOperationsSheet(f *excelize.File, result *dto.BOMResult, precision int32, headerStyle int) error {
	const sheet = "Operations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, OperationsHeader, headerStyle); err != nil {
		return err
	}

	rowNum := 2
	for _, line := range result.Lines {
		for _, op := range line.Operations {
			row := []any{
				line.ID,
				line.ItemID,
				op.Description,
				op.Process,
				deref(op.WorkCenter),
				op.OperationType,
				op.SetupTime,
				op.SetupUnit,
				op.LaborTime,
				op.LaborUnit,
				op.MachineTime,
				op.MachineUnit,
				RoundNumber(op.TotalDurationX1, precision),
				RoundNumber(op.TotalDurationX100, precision),
				RoundNumber(op.TotalDurationX1000, precision),
			}
			if err := setRow(f, sheet, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	for i, h := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values)
}
