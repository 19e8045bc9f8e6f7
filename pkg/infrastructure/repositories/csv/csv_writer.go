package csv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/services"
)

// WriteMethodTree writes root as an indented BOM laid out as MethodHeader
func WriteMethodTree(w io.Writer, root *entities.MethodNode) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(MethodHeader); err != nil {
		return err
	}

	for _, item := range services.Flatten(root) {
		n := item.Node
		record := []string{
			strconv.Itoa(item.Level),
			n.ItemID,
			n.ItemReadableID,
			n.Description,
			formatFloat(n.Quantity),
			n.UnitOfMeasure,
			formatFloat(n.UnitCost),
			n.MethodType.String(),
			n.ItemType.String(),
			n.MakeMethodID,
			n.Version,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteOperations writes ops laid out as OperationHeader
func WriteOperations(w io.Writer, ops []entities.OperationRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(OperationHeader); err != nil {
		return err
	}

	for _, op := range ops {
		record := []string{
			op.MakeMethodID,
			strconv.Itoa(op.Order),
			op.Description,
			op.Process,
			op.WorkCenter,
			op.OperationType.String(),
			formatFloat(op.SetupTime),
			op.SetupUnit.String(),
			formatFloat(op.LaborTime),
			op.LaborUnit.String(),
			formatFloat(op.MachineTime),
			op.MachineUnit.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
