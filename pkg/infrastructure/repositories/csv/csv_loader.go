package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/services"
)

// MethodHeader is the header of an indented BOM file. Rows are in pre-order
// and level 0 is the root item.
var MethodHeader = []string{
	"level", "item_id", "readable_id", "description", "quantity", "uom",
	"unit_cost", "method_type", "item_type", "make_method_id", "version",
}

// OperationHeader is the header of an operations file
var OperationHeader = []string{
	"make_method_id", "order", "description", "process", "work_center", "operation_type",
	"setup_time", "setup_unit", "labor_time", "labor_unit", "machine_time", "machine_unit",
}

// Loader handles loading method trees and operations from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadMethodTree loads an indented BOM from a CSV file
func (l *Loader) LoadMethodTree(filename string) (*entities.MethodNode, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open BOM file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadMethodTree(file)
}

// ReadMethodTree reads an indented BOM from r
func (l *Loader) ReadMethodTree(r io.Reader) (*entities.MethodNode, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM CSV: %w", err)
	}
	return MethodTreeFromRecords(records, "BOM CSV")
}

// MethodTreeFromRecords builds a tree from raw rows including the header.
// source names the input in error messages.
func MethodTreeFromRecords(records [][]string, source string) (*entities.MethodNode, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", source)
	}

	header := records[0]
	if !ValidateHeader(header, MethodHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", source, MethodHeader, header)
	}

	items := make([]entities.FlatTreeItem, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		if len(record) != len(MethodHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", source, i+2, len(MethodHeader), len(record))
		}

		item, err := ParseMethodRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, i+2, err)
		}
		item.Index = len(items)
		items = append(items, item)
	}

	root, err := services.Unflatten(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return root, nil
}

// LoadOperations loads operations from a CSV file
func (l *Loader) LoadOperations(filename string) ([]entities.OperationRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open operations file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadOperations(file)
}

// ReadOperations reads operations from r
func (l *Loader) ReadOperations(r io.Reader) ([]entities.OperationRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read operations CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("operations CSV must have a header")
	}

	header := records[0]
	if !ValidateHeader(header, OperationHeader) {
		return nil, fmt.Errorf("operations CSV header mismatch. Expected: %v, Got: %v", OperationHeader, header)
	}

	ops := make([]entities.OperationRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		if len(record) != len(OperationHeader) {
			return nil, fmt.Errorf("operations CSV row %d: expected %d columns, got %d", i+2, len(OperationHeader), len(record))
		}

		op, err := parseOperation(record)
		if err != nil {
			return nil, fmt.Errorf("operations CSV row %d: %w", i+2, err)
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// Helper functions for parsing CSV records

// ValidateHeader compares column names case-insensitively
func ValidateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

// ParseMethodRow parses one indented BOM row laid out as MethodHeader
func ParseMethodRow(record []string) (entities.FlatTreeItem, error) {
	level, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return entities.FlatTreeItem{}, fmt.Errorf("invalid level: %s", record[0])
	}

	quantity, err := parseFloat(record[4])
	if err != nil {
		return entities.FlatTreeItem{}, fmt.Errorf("invalid quantity: %s", record[4])
	}

	unitCost, err := parseFloat(record[6])
	if err != nil {
		return entities.FlatTreeItem{}, fmt.Errorf("invalid unit_cost: %s", record[6])
	}

	node := &entities.MethodNode{
		ItemID:         strings.TrimSpace(record[1]),
		ItemReadableID: strings.TrimSpace(record[2]),
		Description:    record[3],
		Quantity:       quantity,
		UnitOfMeasure:  strings.TrimSpace(record[5]),
		UnitCost:       unitCost,
		MethodType:     entities.MethodType(strings.TrimSpace(record[7])),
		ItemType:       entities.ItemType(strings.TrimSpace(record[8])),
		MakeMethodID:   strings.TrimSpace(record[9]),
		Version:        strings.TrimSpace(record[10]),
	}

	return entities.FlatTreeItem{Node: node, Level: level}, nil
}

func parseOperation(record []string) (entities.OperationRecord, error) {
	order := 0
	if s := strings.TrimSpace(record[1]); s != "" {
		var err error
		order, err = strconv.Atoi(s)
		if err != nil {
			return entities.OperationRecord{}, fmt.Errorf("invalid order: %s", record[1])
		}
	}

	times := make([]float64, 3)
	for i, col := range []int{6, 8, 10} {
		value, err := parseOptionalFloat(record[col])
		if err != nil {
			return entities.OperationRecord{}, fmt.Errorf("invalid %s: %s", OperationHeader[col], record[col])
		}
		times[i] = value
	}

	return entities.OperationRecord{
		MakeMethodID:  strings.TrimSpace(record[0]),
		Order:         order,
		Description:   record[2],
		Process:       record[3],
		WorkCenter:    strings.TrimSpace(record[4]),
		OperationType: entities.OperationType(strings.TrimSpace(record[5])),
		SetupTime:     times[0],
		SetupUnit:     entities.TimeUnit(strings.TrimSpace(record[7])),
		LaborTime:     times[1],
		LaborUnit:     entities.TimeUnit(strings.TrimSpace(record[9])),
		MachineTime:   times[2],
		MachineUnit:   entities.TimeUnit(strings.TrimSpace(record[11])),
	}, nil
}

// parseFloat requires a value; parseOptionalFloat treats blank as zero
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseOptionalFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseFloat(s)
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
