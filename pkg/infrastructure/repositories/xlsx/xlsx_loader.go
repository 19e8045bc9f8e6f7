package xlsx

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomview/pkg/domain/entities"
	bomcsv "github.com/vsinha/bomview/pkg/infrastructure/repositories/csv"
)

// SheetName is the preferred worksheet for an indented BOM; when a workbook
// has no sheet of that name the first sheet is used.
const SheetName = "BOM"

// Loader handles loading indented BOM worksheets
type Loader struct{}

// NewLoader creates a new XLSX loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadMethodTree loads an indented BOM from an .xlsx file
func (l *Loader) LoadMethodTree(filename string) (*entities.MethodNode, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open BOM workbook %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadMethodTree(file)
}

// ReadMethodTree reads an indented BOM workbook from r. The sheet uses the
// same columns as the CSV format.
func (l *Loader) ReadMethodTree(r io.Reader) (*entities.MethodNode, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open BOM workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	// GetRows drops trailing empty cells
	width := len(bomcsv.MethodHeader)
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}

	return bomcsv.MethodTreeFromRecords(rows, "BOM sheet "+sheet)
}
