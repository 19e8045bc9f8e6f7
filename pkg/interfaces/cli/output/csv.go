package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vsinha/bomview/pkg/application/dto"
)

// LinesHeader is the header of the BOM lines CSV
var LinesHeader = []string{
	"id", "level", "item_id", "description", "quantity", "total", "uom",
	"unit_cost", "total_cost", "method_type", "item_type", "version",
}

// OperationsHeader is the header of the operations CSV
var OperationsHeader = []string{
	"bom_id", "item_id", "description", "process", "work_center", "operation_type",
	"setup_time", "setup_unit", "labor_time", "labor_unit", "machine_time", "machine_unit",
	"total_duration_x1", "total_duration_x100", "total_duration_x1000",
}

// WriteLinesCSV writes one row per BOM line
func WriteLinesCSV(w io.Writer, result *dto.BOMResult, precision int32) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(LinesHeader); err != nil {
		return err
	}

	for _, line := range result.Lines {
		record := []string{
			line.ID,
			strconv.Itoa(line.Level),
			line.ItemID,
			deref(line.Description),
			FormatNumber(line.Quantity, precision),
			FormatNumber(line.Total, precision),
			deref(line.UOM),
			FormatNumber(line.UnitCost, precision),
			FormatNumber(line.TotalCost, precision),
			line.MethodType,
			line.ItemType,
			deref(line.Version),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteOperationsCSV writes one row per projected operation, keyed by the
// BOM id of the line it belongs to.
func WriteOperationsCSV(w io.Writer, result *dto.BOMResult, precision int32) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(OperationsHeader); err != nil {
		return err
	}

	for _, line := range result.Lines {
		for _, op := range line.Operations {
			record := []string{
				line.ID,
				line.ItemID,
				op.Description,
				op.Process,
				deref(op.WorkCenter),
				op.OperationType,
				FormatNumber(op.SetupTime, precision),
				op.SetupUnit,
				FormatNumber(op.LaborTime, precision),
				op.LaborUnit,
				FormatNumber(op.MachineTime, precision),
				op.MachineUnit,
				FormatNumber(op.TotalDurationX1, precision),
				FormatNumber(op.TotalDurationX100, precision),
				FormatNumber(op.TotalDurationX1000, precision),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
