package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/bomview/pkg/application/dto"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "xlsx"}

// Config holds configuration for output generation
type Config struct {
	Format        string
	OutputDir     string
	Precision     int32
	Verbose       bool
	ExplosionTime time.Duration
}

// ValidFormat reports whether format is one of Formats
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Generate renders result in the configured format. name is the base name of
// the files written when config.OutputDir is set; otherwise output goes to w.
func Generate(w io.Writer, name string, result *dto.BOMResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(w, name, result, config)
	case "json":
		return generateJSONOutput(w, name, result, config)
	case "csv":
		return generateCSVOutput(w, name, result, config)
	case "xlsx":
		return generateXLSXOutput(w, name, result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(w io.Writer, name string, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		return WriteText(w, result, config.Precision)
	}

	filename, err := writeFile(config.OutputDir, name+".txt", func(f io.Writer) error {
		return WriteText(f, result, config.Precision)
	})
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s (%v)\n", filename, config.ExplosionTime)
	}
	return nil
}

func generateJSONOutput(w io.Writer, name string, result *dto.BOMResult, config Config) error {
	jsonData, err := json.MarshalIndent(RoundResult(result, config.Precision), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	filename, err := writeFile(config.OutputDir, name+".json", func(f io.Writer) error {
		_, err := f.Write(append(jsonData, '\n'))
		return err
	})
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

func generateCSVOutput(w io.Writer, name string, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		return WriteLinesCSV(w, result, config.Precision)
	}

	linesFile, err := writeFile(config.OutputDir, name+".csv", func(f io.Writer) error {
		return WriteLinesCSV(f, result, config.Precision)
	})
	if err != nil {
		return fmt.Errorf("failed to write BOM lines CSV: %w", err)
	}

	opsFile := ""
	if result.Summary.Operations > 0 {
		opsFile, err = writeFile(config.OutputDir, name+"_operations.csv", func(f io.Writer) error {
			return WriteOperationsCSV(f, result, config.Precision)
		})
		if err != nil {
			return fmt.Errorf("failed to write operations CSV: %w", err)
		}
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Lines: %s\n", linesFile)
		if opsFile != "" {
			fmt.Fprintf(w, "  Operations: %s\n", opsFile)
		}
	}
	return nil
}

func generateXLSXOutput(w io.Writer, name string, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	filename, err := writeFile(config.OutputDir, name+".xlsx", func(f io.Writer) error {
		return WriteXLSX(f, result, config.Precision)
	})
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Workbook saved to: %s\n", filename)
	}
	return nil
}

// BaseName derives an output file name from an input path
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(dir, name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filename, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return filename, nil
}
