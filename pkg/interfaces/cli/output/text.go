package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/bomview/pkg/application/dto"
)

// WriteText renders an indented table of the result
func WriteText(w io.Writer, result *dto.BOMResult, precision int32) error {
	ew := &errWriter{w: w}
	summary := result.Summary

	ew.printf("📋 Bill of Materials: %s\n", summary.RootItemID)
	ew.printf("======================\n\n")

	if len(result.Lines) == 0 {
		ew.printf("(empty)\n")
		return ew.err
	}

	ew.printf("%-12s %-28s %10s %10s %-6s %10s %12s %-6s %-10s\n",
		"ID", "Item", "Qty", "Total", "UOM", "Unit Cost", "Total Cost", "Method", "Type")
	ew.printf("%-12s %-28s %10s %10s %-6s %10s %12s %-6s %-10s\n",
		"------------", "----------------------------", "----------", "----------",
		"------", "----------", "------------", "------", "----------")

	for _, line := range result.Lines {
		ew.printf("%-12s %-28s %10s %10s %-6s %10s %12s %-6s %-10s\n",
			line.ID,
			strings.Repeat("  ", line.Level)+line.ItemID,
			FormatNumber(line.Quantity, precision),
			FormatNumber(line.Total, precision),
			deref(line.UOM),
			FormatNumber(line.UnitCost, precision),
			FormatNumber(line.TotalCost, precision),
			line.MethodType,
			line.ItemType)

		for _, op := range line.Operations {
			ew.printf("%-12s %s⚙ %s [%s] x1=%s x100=%s x1000=%s min\n",
				"",
				strings.Repeat("  ", line.Level+1),
				op.Description,
				op.Process,
				FormatNumber(op.TotalDurationX1, precision),
				FormatNumber(op.TotalDurationX100, precision),
				FormatNumber(op.TotalDurationX1000, precision))
		}
	}

	ew.printf("\nLines: %d\n", summary.Lines)
	ew.printf("Max Level: %d\n", summary.MaxLevel)
	ew.printf("Material Cost: %s\n", FormatNumber(summary.MaterialCost, precision))
	if summary.Operations > 0 {
		ew.printf("Operations: %d\n", summary.Operations)
		ew.printf("Duration (min): x1=%s x100=%s x1000=%s\n",
			FormatNumber(summary.TotalDurationX1, precision),
			FormatNumber(summary.TotalDurationX100, precision),
			FormatNumber(summary.TotalDurationX1000, precision))
		for _, d := range summary.Durations {
			ew.printf("Duration at %s (min): %s\n",
				FormatNumber(d.Quantity, precision),
				FormatNumber(d.Total, precision))
		}
	}

	return ew.err
}

// errWriter keeps the first write error so callers check once
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
